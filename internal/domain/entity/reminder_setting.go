package entity

import "time"

// ReminderKind tipo de recordatorio.
type ReminderKind string

const (
	ReminderBeforeDue ReminderKind = "before_due"
	ReminderAfterDue  ReminderKind = "after_due"
	ReminderThankYou  ReminderKind = "thank_you"
)

// ReminderKinds en el orden en que se muestran y se resuelven.
var ReminderKinds = []ReminderKind{ReminderBeforeDue, ReminderAfterDue, ReminderThankYou}

// DefaultReminderOffsets días por defecto cuando el usuario no ha guardado la configuración.
var DefaultReminderOffsets = map[ReminderKind]int{
	ReminderBeforeDue: 3,
	ReminderAfterDue:  1,
	ReminderThankYou:  0,
}

// Valid indica si k es un tipo conocido.
func (k ReminderKind) Valid() bool {
	_, ok := DefaultReminderOffsets[k]
	return ok
}

// ReminderSetting configuración de recordatorio por usuario y tipo (máximo una por par).
type ReminderSetting struct {
	ID              string
	UserID          string
	Kind            ReminderKind
	DaysOffset      int
	IsActive        bool
	EmailTemplateID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
