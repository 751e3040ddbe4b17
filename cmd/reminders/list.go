package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newListCmd(e *env) *cobra.Command {
	var w window
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Imprime los recordatorios de la ventana sin encolarlos",
		Example: `  reminders list --user user_1
  reminders list --user user_1 --from 2024-01-01 --to 2024-03-31`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			events, err := e.events(cmd.Context(), w)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tINVOICE\tKIND\tOFFSET")
			for _, ev := range events {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", ev.Date.Format(time.DateOnly), ev.InvoiceNumber, ev.Kind, ev.DaysOffset)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d recordatorio(s)\n", len(events))
			return nil
		},
	}
	w.bind(cmd)
	return cmd
}
