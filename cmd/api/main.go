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
	"github.com/jhoicas/refineria-api/internal/application/batch"
	"github.com/jhoicas/refineria-api/internal/application/inventory"
	"github.com/jhoicas/refineria-api/internal/domain/repository"
	"github.com/jhoicas/refineria-api/internal/infrastructure/accounting"
	"github.com/jhoicas/refineria-api/internal/infrastructure/events"
	"github.com/jhoicas/refineria-api/internal/infrastructure/memory"
	"github.com/jhoicas/refineria-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/refineria-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/refineria-api/internal/interfaces/http"
	"github.com/jhoicas/refineria-api/pkg/config"
	"github.com/jhoicas/refineria-api/pkg/logger"
)

// storage runner transaccional del driver elegido; sirve a ambos casos de uso.
type storage interface {
	inventory.TxRunner
	batch.TxRunner
}

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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner storage
		repos    repository.Repos
	)
	switch cfg.DB.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("usando almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	// Eventos de inventario: siempre al log; a Redis si está configurado.
	sinks := events.MultiSink{events.NewLogSink(log.Named("inventory-events"))}
	var locker batch.Locker = batch.NoopLocker{}
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("address", cfg.Redis.Address).Msg("Redis no disponible: sin bloqueos distribuidos ni publicación de eventos")
		} else {
			defer rdb.Close()
			locker = infraredis.NewLocker(rdb, cfg.Redis.LockTTL)
			sinks = append(sinks, infraredis.NewEventPublisher(rdb, cfg.Redis.EventsChannel))
		}
	}

	var accountingSync batch.AccountingSync = batch.NoopAccountingSync{}
	if cfg.PubSub.Enabled() {
		pub, err := accounting.NewAccountingPublisher(ctx, cfg.PubSub)
		if err != nil {
			log.Warn().Err(err).Str("project", cfg.PubSub.ProjectID).Msg("Pub/Sub no disponible: contabilidad no será notificada")
		} else {
			defer pub.Close()
			accountingSync = pub
		}
	}

	now := time.Now
	ledger := inventory.NewLedger(now, cfg.Ledger.DefaultCurrency)
	dispatcher := inventory.NewDispatcher(sinks, log.Named("dispatcher"))

	inventoryUC := inventory.NewUseCase(inventory.Deps{
		TxRunner:     txRunner,
		Items:        repos.Items,
		Transactions: repos.Transactions,
		Ledger:       ledger,
		Dispatcher:   dispatcher,
		Now:          now,
		Log:          log.Named("inventory"),
	})
	batchUC := batch.NewUseCase(batch.Deps{
		TxRunner:   txRunner,
		Batches:    repos.Batches,
		Processes:  repos.Processes,
		Ledger:     ledger,
		Dispatcher: dispatcher,
		Locker:     locker,
		Accounting: accountingSync,
		Now:        now,
		Log:        log.Named("batch"),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Refinería API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		InventoryUC: inventoryUC,
		BatchUC:     batchUC,
		ServiceName: cfg.App.Name,
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
