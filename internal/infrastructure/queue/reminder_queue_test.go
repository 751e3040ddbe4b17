package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoicing"
	"github.com/jhoicas/invoice-builder-api/internal/infrastructure/queue"
)

// fakeClient registra las tareas y rechaza TaskID repetidos como lo hace Redis.
type fakeClient struct {
	seen  map[string]bool
	tasks []*asynq.Task
	fail  error
}

func (f *fakeClient) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	info := &asynq.TaskInfo{Queue: "default", Type: task.Type()}
	for _, o := range opts {
		switch o.Type() {
		case asynq.TaskIDOpt:
			info.ID = o.Value().(string)
		case asynq.QueueOpt:
			info.Queue = o.Value().(string)
		case asynq.ProcessAtOpt:
			info.NextProcessAt = o.Value().(time.Time)
		}
	}
	if f.seen[info.ID] {
		return nil, asynq.ErrTaskIDConflict
	}
	f.seen[info.ID] = true
	f.tasks = append(f.tasks, task)
	return info, nil
}

func event(day int, kind entity.ReminderKind) invoicing.ReminderEvent {
	return invoicing.ReminderEvent{
		InvoiceID:     "invoice_3",
		InvoiceNumber: "INV-2024-003",
		Kind:          kind,
		Date:          time.Date(2024, 2, day, 0, 0, 0, 0, time.UTC),
		DaysOffset:    3,
	}
}

// ─── NewReminderTask ─────────────────────────────────────────────────────────

func TestNewReminderTask_PayloadYOpciones(t *testing.T) {
	ev := event(12, entity.ReminderBeforeDue)
	task, opts, err := queue.NewReminderTask("user_1", "reminders", ev)
	require.NoError(t, err)
	assert.Equal(t, queue.TypeSendReminder, task.Type())

	var p queue.ReminderPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "user_1", p.UserID)
	assert.Equal(t, "INV-2024-003", p.InvoiceNumber)
	assert.Equal(t, "before_due", p.Kind)
	assert.Equal(t, "2024-02-12", p.Date)

	require.Len(t, opts, 3)
	assert.Equal(t, "reminder:invoice_3:before_due:2024-02-12", queue.TaskID(ev))
}

func TestNewReminderTask_SinColaUsaLaPorDefecto(t *testing.T) {
	_, opts, err := queue.NewReminderTask("user_1", "", event(12, entity.ReminderBeforeDue))
	require.NoError(t, err)
	for _, o := range opts {
		assert.NotEqual(t, asynq.QueueOpt, o.Type(), "no debe fijar cola")
	}
}

// ─── Enqueue ─────────────────────────────────────────────────────────────────

func TestEnqueue_IdempotentePorTaskID(t *testing.T) {
	client := &fakeClient{seen: map[string]bool{}}
	e := queue.NewReminderEnqueuer(client, "reminders", nil)
	events := []invoicing.ReminderEvent{event(12, entity.ReminderBeforeDue), event(16, entity.ReminderAfterDue)}

	res, err := e.Enqueue(context.Background(), "user_1", events)
	require.NoError(t, err)
	assert.Equal(t, queue.EnqueueResult{Enqueued: 2}, res)

	res, err = e.Enqueue(context.Background(), "user_1", events)
	require.NoError(t, err)
	assert.Equal(t, queue.EnqueueResult{Skipped: 2}, res, "la segunda pasada no duplica")
	assert.Len(t, client.tasks, 2)
}

func TestEnqueue_ErrorDeRedis(t *testing.T) {
	boom := errors.New("redis caído")
	e := queue.NewReminderEnqueuer(&fakeClient{seen: map[string]bool{}, fail: boom}, "", nil)
	_, err := e.Enqueue(context.Background(), "user_1", []invoicing.ReminderEvent{event(12, entity.ReminderBeforeDue)})
	assert.ErrorIs(t, err, boom)
}
