package bridge

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agrisense/agrisense-server/pkg/common"
	_ "github.com/agrisense/agrisense-server/pkg/testing"
)

func TestSetPumpFormBody(t *testing.T) {
	common.SetTestLoggerNop()

	var gotAction, gotMode, gotState string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/control.php", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		gotAction = r.PostFormValue("action")
		gotMode = r.PostFormValue("mode")
		gotState = r.PostFormValue("state")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, DefaultTimeout)

	ok := client.SetPump("kolam", true)
	assert.True(t, ok)
	assert.Equal(t, "set_pump", gotAction)
	assert.Equal(t, "kolam", gotMode)
	assert.Equal(t, "1", gotState)

	ok = client.SetPump("sawah", false)
	assert.True(t, ok)
	assert.Equal(t, "sawah", gotMode)
	assert.Equal(t, "0", gotState)
}

func TestSetPumpErrorStatus(t *testing.T) {
	common.SetTestLoggerNop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, DefaultTimeout)
	assert.False(t, client.SetPump("kolam", true))
}

func TestSetPumpUnreachable(t *testing.T) {
	common.SetTestLoggerNop()

	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	assert.False(t, client.SetPump("kolam", false))
}
