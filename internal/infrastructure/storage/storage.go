// Package storage elige el almacenamiento (PostgreSQL o memoria) y expone los repositorios
// ya construidos para los binarios de cmd/.
package storage

import (
	"context"

	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
	"github.com/jhoicas/invoice-builder-api/internal/infrastructure/memory"
	"github.com/jhoicas/invoice-builder-api/internal/infrastructure/postgres"
	"github.com/jhoicas/invoice-builder-api/pkg/config"
	"github.com/jhoicas/invoice-builder-api/pkg/logger"
)

// Repositories conjunto de puertos sobre un mismo almacenamiento.
type Repositories struct {
	Driver           string
	Users            repository.UserRepository
	Clients          repository.ClientRepository
	Invoices         repository.InvoiceRepository
	PaymentGateways  repository.PaymentGatewayRepository
	EmailTemplates   repository.EmailTemplateRepository
	ReminderSettings repository.ReminderSettingRepository
	Expenses         repository.ExpenseRepository
	Tx               billing.InvoiceTxRunner

	close func()
}

// Close libera el pool si lo hay.
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// Open abre PostgreSQL según cfg. Con STORAGE_DRIVER=memory, o si la base no responde,
// devuelve el conjunto de demostración en memoria y lo deja registrado en el log.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Repositories, error) {
	log = log.Component("storage")
	if cfg.Storage.UseMemory() {
		log.Info().Msg("almacenamiento en memoria con datos de demostración")
		return openMemory()
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Warn().Err(err).Msg("PostgreSQL no disponible, se usan datos de demostración en memoria")
		return openMemory()
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema verificado")
	}
	return &Repositories{
		Driver:           config.StoragePostgres,
		Users:            postgres.NewUserRepository(pool),
		Clients:          postgres.NewClientRepository(pool),
		Invoices:         postgres.NewInvoiceRepository(pool),
		PaymentGateways:  postgres.NewPaymentGatewayRepository(pool),
		EmailTemplates:   postgres.NewEmailTemplateRepository(pool),
		ReminderSettings: postgres.NewReminderSettingRepository(pool),
		Expenses:         postgres.NewExpenseRepository(pool),
		Tx:               postgres.NewTxRunner(pool),
		close:            pool.Close,
	}, nil
}

func openMemory() (*Repositories, error) {
	s, err := memory.NewSeeded()
	if err != nil {
		return nil, err
	}
	return FromMemory(s), nil
}

// FromMemory envuelve un store en memoria existente.
func FromMemory(s *memory.Store) *Repositories {
	return &Repositories{
		Driver:           config.StorageMemory,
		Users:            s.Users(),
		Clients:          s.Clients(),
		Invoices:         s.Invoices(),
		PaymentGateways:  s.PaymentGateways(),
		EmailTemplates:   s.EmailTemplates(),
		ReminderSettings: s.ReminderSettings(),
		Expenses:         s.Expenses(),
		Tx:               s,
	}
}
