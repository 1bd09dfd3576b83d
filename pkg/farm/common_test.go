package farm

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"go.uber.org/mock/gomock"
	"github.com/agrisense/agrisense-server/pkg/db"
	"github.com/agrisense/agrisense-server/pkg/farm/mocks"
	"github.com/agrisense/agrisense-server/pkg/models"
)

func GetMockFarmWithMemorySqliteDialector(t *testing.T, useMockIAlert bool) (
	*gomock.Controller,
	*Farm,
	*mocks.MockIAlert,
	*mocks.MockNotifier,
) {
	ctrl := gomock.NewController(t)

	mockIAlert := mocks.NewMockIAlert(ctrl)
	mockNotifier := mocks.NewMockNotifier(ctrl)
	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations
	farmInstance := &Farm{
		Db:       *dbInstance,
		Notifier: mockNotifier,
	}

	alertService := farmInstance.GetIAlert()
	if useMockIAlert {
		alertService = mockIAlert
	}

	farmInstance.WithServices(ServiceOpts{
		Reading: farmInstance.GetIReading(),
		Alert:   alertService,
		Pump:    farmInstance.GetIPump(),
		Device:  farmInstance.GetIDevice(),
		User:    farmInstance.GetIUser(),
	})

	return ctrl, farmInstance, mockIAlert, mockNotifier
}

// ResetPumpTables clears the shared per-mode rows so pump tests do not see
// each other's state.
func ResetPumpTables(t *testing.T, f *Farm) {
	t.Helper()
	for _, table := range []any{
		&models.DeviceControlState{}, &models.PumpTimer{}, &models.PumpHistoryEntry{},
	} {
		if err := f.Db.Conn.Where("1 = 1").Delete(table).Error; err != nil {
			t.Fatalf("failed to reset pump tables: %v", err)
		}
	}
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
