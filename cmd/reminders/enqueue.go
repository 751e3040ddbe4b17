package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-builder-api/internal/infrastructure/queue"
)

func newEnqueueCmd(e *env) *cobra.Command {
	var w window
	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Encola una tarea asynq por recordatorio, programada en su fecha",
		Long: `Encola una tarea "reminder:send" por cada recordatorio de la ventana con ProcessAt en la
fecha del recordatorio. El TaskID es determinista: volver a ejecutar el comando no duplica tareas.`,
		Example: `  reminders enqueue --user user_1 --to 2024-12-31`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			events, err := e.events(cmd.Context(), w)
			if err != nil {
				return err
			}
			client := queue.NewClient(e.cfg.Queue)
			defer client.Close()

			res, err := queue.NewReminderEnqueuer(client, e.cfg.Queue.ReminderQueue, e.log).
				Enqueue(cmd.Context(), w.userID, events)
			if err != nil {
				return err
			}
			e.log.Info().
				Str("user_id", w.userID).
				Int("enqueued", res.Enqueued).
				Int("skipped", res.Skipped).
				Msg("recordatorios encolados")
			fmt.Fprintf(cmd.OutOrStdout(), "%d encolado(s), %d ya existente(s)\n", res.Enqueued, res.Skipped)
			return nil
		},
	}
	w.bind(cmd)
	return cmd
}
