package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoicing"
	"github.com/jhoicas/invoice-builder-api/internal/infrastructure/storage"
	"github.com/jhoicas/invoice-builder-api/pkg/config"
	"github.com/jhoicas/invoice-builder-api/pkg/logger"
)

// defaultWindowDays ventana por defecto cuando no se indica --to.
const defaultWindowDays = 30

// env dependencias compartidas por los subcomandos.
type env struct {
	cfg      *config.Config
	log      *logger.Logger
	repos    *storage.Repositories
	invoices *billing.InvoiceUseCase
	now      func() time.Time
}

// window flags comunes de los subcomandos.
type window struct {
	userID string
	from   string
	to     string
}

func newRootCmd() *cobra.Command {
	e := &env{now: time.Now}
	root := &cobra.Command{
		Use:   "reminders",
		Short: "Recordatorios de pago de facturas",
		Long: `Calcula las fechas de recordatorio (antes del vencimiento, después del vencimiento y
agradecimiento) de las facturas de un usuario a partir de su configuración.

Variables de entorno: STORAGE_DRIVER, DATABASE_URL o DB_*, REDIS_ADDR, REDIS_PASSWORD,
REDIS_DB, REMINDER_QUEUE, LOG_LEVEL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.repos != nil {
				e.repos.Close()
			}
		},
	}
	root.AddCommand(newListCmd(e), newEnqueueCmd(e))
	return root
}

// open carga configuración, logger y almacenamiento. Si ya hay repos (tests) no hace nada.
func (e *env) open(ctx context.Context) error {
	if e.repos != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	e.cfg = cfg
	base := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	e.log = base.Component("reminders-cli")
	repos, err := storage.Open(ctx, cfg, base)
	if err != nil {
		return err
	}
	e.use(repos)
	return nil
}

func (e *env) use(repos *storage.Repositories) {
	e.repos = repos
	e.invoices = billing.NewInvoiceUseCase(
		repos.Tx, repos.Invoices, repos.Clients, repos.ReminderSettings, repos.PaymentGateways,
	).WithClock(e.now)
}

func (w *window) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&w.userID, "user", "", "ID del usuario (requerido)")
	cmd.Flags().StringVar(&w.from, "from", "", "Inicio de la ventana (YYYY-MM-DD, por defecto hoy)")
	cmd.Flags().StringVar(&w.to, "to", "", "Fin de la ventana (YYYY-MM-DD, por defecto from + 30 días)")
	_ = cmd.MarkFlagRequired("user")
}

// events resuelve los recordatorios del usuario dentro de la ventana.
func (e *env) events(ctx context.Context, w window) ([]invoicing.ReminderEvent, error) {
	from, err := parseDay(w.from, e.now())
	if err != nil {
		return nil, fmt.Errorf("--from: %w", err)
	}
	to, err := parseDay(w.to, from.AddDate(0, 0, defaultWindowDays))
	if err != nil {
		return nil, fmt.Errorf("--to: %w", err)
	}
	return e.invoices.UpcomingEvents(ctx, w.userID, from, to)
}

func parseDay(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("formato esperado YYYY-MM-DD: %q", s)
	}
	return t, nil
}
