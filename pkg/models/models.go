package models

import "time"

type Unit string

const (
	UnitPH      Unit = "ph"
	UnitCm      Unit = "cm"
	UnitPercent Unit = "percent"
)

// Reading is a single time-stamped sensor sample. Rows are immutable once
// created and retained indefinitely.
type Reading struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DeviceID  string    `gorm:"index" json:"deviceId"`
	Location  string    `gorm:"index" json:"location"`
	Unit      Unit      `gorm:"type:varchar(10)" json:"unit"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

type AlertType string

const (
	AlertTypePHLow     AlertType = "ph_low"
	AlertTypePHHigh    AlertType = "ph_high"
	AlertTypeWaterLow  AlertType = "water_low"
	AlertTypeWaterHigh AlertType = "water_high"
)

type Severity string

const (
	SeverityMedium   Severity = "medium"
	SeverityCritical Severity = "critical"
)

type Alert struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Type       AlertType  `gorm:"type:varchar(20);index" json:"type"`
	Message    string     `json:"message"`
	Location   string     `gorm:"index" json:"location"`
	Severity   Severity   `gorm:"type:varchar(10);check:severity IN ('medium','critical')" json:"severity"`
	IsRead     bool       `json:"isRead"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

type PumpCommand string

const (
	CommandOn      PumpCommand = "ON"
	CommandOff     PumpCommand = "OFF"
	CommandStandby PumpCommand = "STANDBY"
)

type PumpMode string

const (
	ModeSawah PumpMode = "sawah"
	ModeKolam PumpMode = "kolam"
)

func (m PumpMode) Valid() bool {
	return m == ModeSawah || m == ModeKolam
}

// DeviceControlState is the desired relay command per (deviceId, mode).
// Rows scoped to a mode alone (the pump relay rows) carry a nil DeviceID.
// Version backs the compare-and-swap on the pump write path.
type DeviceControlState struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	DeviceID  *string     `gorm:"uniqueIndex:idx_device_mode" json:"deviceId"`
	Mode      PumpMode    `gorm:"type:varchar(10);uniqueIndex:idx_device_mode" json:"mode"`
	Command   PumpCommand `gorm:"type:varchar(10);check:command IN ('ON','OFF','STANDBY')" json:"command"`
	ActionBy  string      `json:"actionBy"`
	Reason    string      `json:"reason"`
	Version   int64       `json:"-"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// PumpTimer holds the optional auto-off deadline per mode. When IsManualMode
// is set, Duration and StartTime are ignored for auto-off.
type PumpTimer struct {
	Mode         PumpMode   `gorm:"primaryKey;type:varchar(10)" json:"mode"`
	Duration     *int       `json:"duration"` // minutes
	StartTime    *time.Time `json:"startTime"`
	IsManualMode bool       `json:"isManualMode"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// PumpHistoryEntry is the append-only audit of actual on/off transitions.
type PumpHistoryEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Mode          PumpMode  `gorm:"type:varchar(10);index" json:"mode"`
	PreviousState bool      `json:"previousState"`
	NewState      bool      `json:"newState"`
	ChangedBy     string    `json:"changedBy"`
	UserID        *string   `gorm:"index" json:"userId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleSawah Role = "sawah"
	RoleKolam Role = "kolam"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSawah, RoleKolam, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"primaryKey" json:"id"` // uuid
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `gorm:"type:varchar(10)" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// APIKey is a bearer credential for device-side access to the pump and
// ingest endpoints. Only the bcrypt hash of the key is stored.
type APIKey struct {
	ID         string     `gorm:"primaryKey" json:"id"` // uuid
	Name       string     `json:"name"`
	KeyHash    string     `json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
}

// Message is a note from an admin to one user, or to everyone when UserID
// is nil.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *string   `gorm:"index" json:"userId,omitempty"`
	SentBy    string    `json:"sentBy"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}
