package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/jhoicas/invoice-builder-api/internal/application/analytics"
	"github.com/jhoicas/invoice-builder-api/internal/application/auth"
	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/application/expenses"
	"github.com/jhoicas/invoice-builder-api/internal/application/settings"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/infrastructure/payment"
	infrapdf "github.com/jhoicas/invoice-builder-api/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-builder-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/invoice-builder-api/internal/interfaces/http"
	"github.com/jhoicas/invoice-builder-api/pkg/config"
	"github.com/jhoicas/invoice-builder-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer repos.Close()

	clientUC := billing.NewClientUseCase(repos.Clients)
	invoiceUC := billing.NewInvoiceUseCase(
		repos.Tx, repos.Invoices, repos.Clients, repos.ReminderSettings, repos.PaymentGateways,
	).WithPaymentLinkProvider(entity.GatewayStripe, payment.NewStripeProvider())

	// PDF de la factura con el nombre de empresa del usuario (o el de la configuración)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := billing.NewPDFUseCase(
		repos.Invoices, repos.Clients, repos.Users, pdfGenerator, cfg.App.CompanyName,
	)

	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	reminderUC := settings.NewReminderUseCase(repos.ReminderSettings, repos.EmailTemplates)
	templateUC := settings.NewTemplateUseCase(repos.EmailTemplates)
	gatewayUC := settings.NewGatewayUseCase(repos.PaymentGateways)
	expenseUC := expenses.NewUseCase(repos.Expenses, repos.Clients)
	dashboardUC := appanalytics.NewDashboardUseCase(
		repos.Invoices, repos.Clients, repos.Expenses, repos.ReminderSettings,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.AccessLog(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Invoice Builder API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": repos.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ClientUC:    clientUC,
		InvoiceUC:   invoiceUC,
		InvoicePDF:  invoicePDFUC,
		ReminderUC:  reminderUC,
		TemplateUC:  templateUC,
		GatewayUC:   gatewayUC,
		ExpenseUC:   expenseUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
		AuthLimit: httpRouter.RateLimit{
			PerMinute: cfg.HTTP.AuthRatePerMinute,
			Burst:     cfg.HTTP.AuthRateBurst,
		},
		Log: log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
