package invoicing

import (
	"iter"
	"time"

	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
)

// ReminderEvent fecha en la que correspondería enviar un recordatorio. No implica envío.
type ReminderEvent struct {
	InvoiceID       string
	InvoiceNumber   string
	Kind            entity.ReminderKind
	Date            time.Time
	DaysOffset      int
	EmailTemplateID string
}

// ResolveReminders produce de forma perezosa los recordatorios de una factura a partir
// de las configuraciones activas del usuario. No hace I/O.
//
//   - before_due: dueDate − d, solo si la factura está sent y la fecha no es anterior a la emisión.
//   - after_due:  dueDate + d, solo si la factura está sent (sin pagar).
//   - thank_you:  paidDate + d, solo si la factura está paid.
//
// Sin fecha de vencimiento no hay recordatorios before/after.
func ResolveReminders(inv *entity.Invoice, settings []*entity.ReminderSetting) iter.Seq[ReminderEvent] {
	return func(yield func(ReminderEvent) bool) {
		for _, s := range settings {
			if s == nil || !s.IsActive || s.DaysOffset < 0 {
				continue
			}
			date, ok := reminderDate(inv, s)
			if !ok {
				continue
			}
			ev := ReminderEvent{
				InvoiceID:       inv.ID,
				InvoiceNumber:   inv.InvoiceNumber,
				Kind:            s.Kind,
				Date:            date,
				DaysOffset:      s.DaysOffset,
				EmailTemplateID: s.EmailTemplateID,
			}
			if !yield(ev) {
				return
			}
		}
	}
}

func reminderDate(inv *entity.Invoice, s *entity.ReminderSetting) (time.Time, bool) {
	switch s.Kind {
	case entity.ReminderBeforeDue:
		if inv.Status != entity.InvoiceStatusSent || inv.DueDate == nil {
			return time.Time{}, false
		}
		d := entity.DateOf(*inv.DueDate).AddDate(0, 0, -s.DaysOffset)
		if d.Before(entity.DateOf(inv.IssueDate)) {
			return time.Time{}, false
		}
		return d, true
	case entity.ReminderAfterDue:
		if inv.Status != entity.InvoiceStatusSent || inv.DueDate == nil {
			return time.Time{}, false
		}
		return entity.DateOf(*inv.DueDate).AddDate(0, 0, s.DaysOffset), true
	case entity.ReminderThankYou:
		if inv.Status != entity.InvoiceStatusPaid {
			return time.Time{}, false
		}
		paid := inv.UpdatedAt
		if inv.PaidAt != nil {
			paid = *inv.PaidAt
		}
		return entity.DateOf(paid).AddDate(0, 0, s.DaysOffset), true
	}
	return time.Time{}, false
}

// RemindersBetween recoge los eventos con fecha en [from, to] (ambos inclusive, por día).
func RemindersBetween(seq iter.Seq[ReminderEvent], from, to time.Time) []ReminderEvent {
	lo, hi := entity.DateOf(from), entity.DateOf(to)
	var out []ReminderEvent
	for ev := range seq {
		if ev.Date.Before(lo) || ev.Date.After(hi) {
			continue
		}
		out = append(out, ev)
	}
	return out
}
