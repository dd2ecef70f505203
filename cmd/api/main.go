// @title                       Traslados API
// @version                     1.0
// @description                 Traslados de inventario entre sucursales, libro de stock y correcciones.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/jhoicas/traslados-api/docs"
	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/application/ports"
	"github.com/jhoicas/traslados-api/internal/application/transfer"
	"github.com/jhoicas/traslados-api/internal/infrastructure/authz"
	"github.com/jhoicas/traslados-api/internal/infrastructure/metrics"
	"github.com/jhoicas/traslados-api/internal/infrastructure/notify"
	"github.com/jhoicas/traslados-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/traslados-api/internal/interfaces/http"
	"github.com/jhoicas/traslados-api/pkg/config"
	"github.com/jhoicas/traslados-api/pkg/logger"
	"github.com/jhoicas/traslados-api/pkg/migrate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		db := stdlib.OpenDBFromPool(pool)
		if err := migrate.Up(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		_ = db.Close()
		log.Info().Msg("migraciones aplicadas")
	}

	// Métricas: registro propio para no mezclar con el global de otras librerías.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	var m *metrics.Prometheus
	if cfg.Metrics.Enabled {
		m = metrics.New(reg)
	} else {
		m = metrics.New(nil)
	}

	// Avisos de diferencias: siempre al log, y a Pub/Sub si está configurado.
	notifiers := notify.Multi{notify.NewLogNotifier(log.Component("discrepancy"))}
	if cfg.PubSub.Enabled() {
		client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente Pub/Sub")
		}
		defer client.Close()
		pubsubNotifier, err := notify.NewPubSubNotifier(client, cfg.PubSub.DiscrepancyTopic, cfg.PubSub.PublishTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("publicador de diferencias")
		}
		defer pubsubNotifier.Stop()
		notifiers = append(notifiers, pubsubNotifier)
	}

	txRunner := postgres.NewTxRunner(pool, cfg.Transfer.TxTimeout, cfg.Transfer.LockTimeout)
	read := postgres.ReposFor(pool)
	refs := postgres.References(pool)
	perms := authz.New(authz.DefaultRoleCapabilities(), postgres.NewStaffRepository(pool))
	var audit ports.AuditSink = postgres.NewAuditLogRepository(pool)
	writer := inventory.NewLedgerWriter(m)
	zl := log.Zerolog()

	transferUC := transfer.NewUseCase(transfer.Dependencies{
		TxRunner:    txRunner,
		Read:        read,
		Refs:        refs,
		SODSettings: postgres.NewSODSettingsRepository(pool),
		Permissions: perms,
		Writer:      writer,
		Notifier:    notifiers,
		Audit:       audit,
		Metrics:     m,
		Logger:      zl,
	})
	ledgerUC := inventory.NewLedgerUseCase(txRunner, read, refs, perms, writer, audit, zl)
	reconciliationUC := inventory.NewReconciliationUseCase(txRunner, read, refs, perms, writer, m, audit,
		inventory.CorrectionPolicy{
			ApprovalThreshold: cfg.Correction.ApprovalThreshold,
			RecurrenceWindow:  cfg.Correction.RecurrenceWindow,
		}, zl)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Transfer.TxTimeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Traslados API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		httpRouter.MountMetrics(app, cfg.Metrics.Path, reg)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Transfers:      transferUC,
		Ledger:         ledgerUC,
		Reconciliation: reconciliationUC,
		JWTSecret:      cfg.JWT.Secret,
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
