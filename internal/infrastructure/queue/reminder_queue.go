// Package queue entrega los recordatorios resueltos a una cola asynq (Redis). El envío
// del correo lo hace un consumidor externo de la cola.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/invoice-builder-api/internal/domain/invoicing"
	"github.com/jhoicas/invoice-builder-api/pkg/config"
	"github.com/jhoicas/invoice-builder-api/pkg/logger"
)

// TypeSendReminder tipo de tarea que consume el worker de correo.
const TypeSendReminder = "reminder:send"

// ReminderPayload cuerpo JSON de la tarea.
type ReminderPayload struct {
	UserID          string `json:"user_id"`
	InvoiceID       string `json:"invoice_id"`
	InvoiceNumber   string `json:"invoice_number"`
	Kind            string `json:"kind"`
	Date            string `json:"date"` // YYYY-MM-DD
	DaysOffset      int    `json:"days_offset"`
	EmailTemplateID string `json:"email_template_id,omitempty"`
}

// TaskID identificador determinista: volver a encolar el mismo evento no lo duplica.
func TaskID(ev invoicing.ReminderEvent) string {
	return fmt.Sprintf("reminder:%s:%s:%s", ev.InvoiceID, ev.Kind, ev.Date.Format(time.DateOnly))
}

// NewReminderTask arma la tarea y sus opciones (ProcessAt en la fecha del evento).
func NewReminderTask(userID, queueName string, ev invoicing.ReminderEvent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ReminderPayload{
		UserID:          userID,
		InvoiceID:       ev.InvoiceID,
		InvoiceNumber:   ev.InvoiceNumber,
		Kind:            string(ev.Kind),
		Date:            ev.Date.Format(time.DateOnly),
		DaysOffset:      ev.DaysOffset,
		EmailTemplateID: ev.EmailTemplateID,
	})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(ev.Date),
		asynq.TaskID(TaskID(ev)),
	}
	if queueName != "" {
		opts = append(opts, asynq.Queue(queueName))
	}
	return task, opts, nil
}

// TaskEnqueuer lo que se necesita de *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueueResult resumen de una pasada.
type EnqueueResult struct {
	Enqueued int
	Skipped  int // ya estaban en la cola
}

// ReminderEnqueuer publica eventos de recordatorio en la cola.
type ReminderEnqueuer struct {
	client    TaskEnqueuer
	queueName string
	log       *logger.Logger
}

// NewReminderEnqueuer usa un enqueuer ya construido (cliente asynq o doble de pruebas).
func NewReminderEnqueuer(client TaskEnqueuer, queueName string, log *logger.Logger) *ReminderEnqueuer {
	if log == nil {
		log = logger.Nop()
	}
	return &ReminderEnqueuer{client: client, queueName: queueName, log: log.Component("reminders")}
}

// NewClient crea el cliente asynq a partir de la configuración de Redis.
func NewClient(cfg config.QueueConfig) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// Enqueue encola un evento por tarea. Un TaskID repetido cuenta como omitido, no como error.
func (e *ReminderEnqueuer) Enqueue(ctx context.Context, userID string, events []invoicing.ReminderEvent) (EnqueueResult, error) {
	var res EnqueueResult
	for _, ev := range events {
		task, opts, err := NewReminderTask(userID, e.queueName, ev)
		if err != nil {
			return res, fmt.Errorf("armar tarea %s: %w", TaskID(ev), err)
		}
		info, err := e.client.EnqueueContext(ctx, task, opts...)
		switch {
		case errors.Is(err, asynq.ErrTaskIDConflict):
			res.Skipped++
			e.log.Debug().Str("task_id", TaskID(ev)).Msg("recordatorio ya encolado")
			continue
		case err != nil:
			return res, fmt.Errorf("encolar %s: %w", TaskID(ev), err)
		}
		res.Enqueued++
		e.log.Info().
			Str("task_id", info.ID).
			Str("queue", info.Queue).
			Str("invoice", ev.InvoiceNumber).
			Str("kind", string(ev.Kind)).
			Time("process_at", info.NextProcessAt).
			Msg("recordatorio encolado")
	}
	return res, nil
}
