// Comando reconcile: compara el libro de inventario con el stock materializado de cada empresa
// y reporta las llaves con diferencia. Con REDIS_ADDR una sola réplica corre a la vez.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/jhoicas/traslados-api/internal/application/inventory"
	"github.com/jhoicas/traslados-api/internal/infrastructure/authz"
	"github.com/jhoicas/traslados-api/internal/infrastructure/metrics"
	"github.com/jhoicas/traslados-api/internal/infrastructure/postgres"
	"github.com/jhoicas/traslados-api/internal/infrastructure/redislock"
	"github.com/jhoicas/traslados-api/pkg/config"
	"github.com/jhoicas/traslados-api/pkg/logger"
)

const lockKeyFormat = "traslados:reconcile:lock:%s"

func main() {
	business := flag.String("business", "", "revisar solo esta empresa")
	every := flag.Duration("every", 0, "repetir con este intervalo (0 = una sola vez)")
	pushGateway := flag.String("pushgateway", "", "URL del Pushgateway para publicar las métricas de la corrida")
	failOnVariance := flag.Bool("fail-on-variance", false, "salir con código 2 si hay diferencias")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "reconcile"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB, "traslados-reconcile")
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	var lock *redislock.Lock
	if cfg.Redis.Addr != "" {
		store, err := redislock.NewClientStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer store.Close()
		lock, err = redislock.New(store, fmt.Sprintf(lockKeyFormat, cfg.App.Env), cfg.Redis.LockTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("candado de reconciliación")
		}
	}

	reg := prometheus.NewRegistry()
	staff := postgres.NewStaffRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Transfer.TxTimeout, cfg.Transfer.LockTimeout)
	m := metrics.New(reg)
	recon := inventory.NewReconciliationUseCase(
		txRunner,
		postgres.ReposFor(pool),
		postgres.References(pool),
		authz.New(authz.DefaultRoleCapabilities(), staff),
		inventory.NewLedgerWriter(m),
		m,
		nil,
		inventory.CorrectionPolicy{
			ApprovalThreshold: cfg.Correction.ApprovalThreshold,
			RecurrenceWindow:  cfg.Correction.RecurrenceWindow,
		},
		log.Zerolog(),
	)

	r := runner{
		recon:    recon,
		staff:    staff,
		lock:     lock,
		business: *business,
		log:      log.Component("reconcile"),
	}

	found, err := r.once(ctx)
	for *every > 0 && ctx.Err() == nil {
		if err != nil {
			r.log.Error().Err(err).Msg("corrida con errores")
		}
		select {
		case <-ctx.Done():
		case <-time.After(*every):
			found, err = r.once(ctx)
		}
	}

	if *pushGateway != "" {
		if perr := push.New(*pushGateway, "traslados_reconcile").Gatherer(reg).Push(); perr != nil {
			r.log.Warn().Err(perr).Msg("no se pudieron publicar las métricas")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		r.log.Error().Err(err).Msg("reconciliación fallida")
		os.Exit(1)
	}
	if *failOnVariance && found > 0 {
		os.Exit(2)
	}
}

type businessLister interface {
	ListBusinessIDs(ctx context.Context) ([]string, error)
}

type runner struct {
	recon    *inventory.ReconciliationUseCase
	staff    businessLister
	lock     *redislock.Lock
	business string
	log      zerolog.Logger
}

// once revisa todas las empresas; devuelve cuántas llaves tienen diferencia.
// Un fallo en una empresa no detiene a las demás.
func (r runner) once(ctx context.Context) (int, error) {
	if r.lock != nil {
		ok, err := r.lock.Acquire(ctx)
		if err != nil {
			return 0, err
		}
		if !ok {
			r.log.Info().Msg("otra réplica está reconciliando; se omite la corrida")
			return 0, nil
		}
		defer func() {
			if err := r.lock.Release(context.WithoutCancel(ctx)); err != nil {
				r.log.Warn().Err(err).Msg("liberar candado")
			}
		}()
	}

	businesses := []string{r.business}
	if r.business == "" {
		var err error
		if businesses, err = r.staff.ListBusinessIDs(ctx); err != nil {
			return 0, err
		}
	}

	var errs error
	found := 0
	for _, id := range businesses {
		variances, err := r.recon.Scan(ctx, id)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("empresa %s: %w", id, err))
			continue
		}
		found += len(variances)
		for _, v := range variances {
			r.log.Warn().
				Str("business_id", id).
				Str("variation_id", v.VariationID).
				Str("location_id", v.LocationID).
				Str("ledger", v.LedgerQuantity.String()).
				Str("snapshot", v.SnapshotQuantity.String()).
				Msg("diferencia entre libro y snapshot")
		}
	}
	r.log.Info().Int("businesses", len(businesses)).Int("variances", found).Msg("reconciliación terminada")
	return found, errs
}
