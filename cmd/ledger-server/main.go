package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	app "github.com/muhammadchandra19/venue-ledger/internal/app/engine"
	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
	"github.com/muhammadchandra19/venue-ledger/internal/infrastructure/inmem"
	"github.com/muhammadchandra19/venue-ledger/internal/infrastructure/websocket"
	"github.com/muhammadchandra19/venue-ledger/internal/usecase/history"
	"github.com/muhammadchandra19/venue-ledger/internal/usecase/registry"
	"github.com/muhammadchandra19/venue-ledger/internal/usecase/replication"
	settlementpublisher "github.com/muhammadchandra19/venue-ledger/internal/usecase/settlement-publisher"
	"github.com/muhammadchandra19/venue-ledger/internal/usecase/snapshot"
	"github.com/muhammadchandra19/venue-ledger/pkg/config"
	"github.com/muhammadchandra19/venue-ledger/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
	"github.com/muhammadchandra19/venue-ledger/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	rclient := redis.NewClient(log, &cfg.Redis)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.NewField("action", "connect_redis"))
		if !rclient.Reconnect(ctx) {
			return
		}
	}
	defer func() {
		if err := rclient.Disconnect(context.Background()); err != nil {
			log.Error(err, logger.NewField("action", "close_redis_client"))
		}
	}()

	reg := registry.NewRegistry(registry.WithLogger(log))

	aggregator, err := history.NewAggregator(cfg.History, log)
	if err != nil {
		log.Error(err, logger.NewField("action", "create_history"))
		return
	}
	aggregator.Attach(reg)

	if cfg.Kafka.Enabled {
		publisher := settlementpublisher.NewPublisher(cfg.Kafka, log)
		publisher.Attach(reg)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error(err, logger.NewField("action", "close_publisher"))
			}
		}()
	}

	sessions := inmem.NewSessions()
	inventory := inmem.NewInventory(0)
	trust := inmem.NewProximity(cfg.Gateway.MaxDistance)
	for _, venue := range cfg.App.Venues {
		trust.PlaceVenue(venue, inmem.Position{})
	}

	// Every principal gets an inventory of its own name next to the venues,
	// funded on first connect.
	var funded sync.Map
	var authority *replication.Authority
	hub := websocket.NewHub(
		websocket.HandlerFunc(func(ctx context.Context, session string, env *replicationv1.Envelope) error {
			return authority.Handle(ctx, session, env)
		}),
		sessions,
		websocket.WithLogger(log),
		websocket.WithSendBuffer(cfg.Gateway.SendBuffer),
		websocket.WithWriteTimeout(cfg.Gateway.WriteTimeout),
		websocket.WithOnConnect(func(ctx context.Context, _, principal string) {
			trust.PlaceInventory(principal, principal, inmem.Position{})
			if _, seen := funded.LoadOrStore(principal, struct{}{}); seen {
				return
			}
			inventory.DepositMoney(ctx, principal, cfg.Gateway.StartingMoney)
			for _, item := range cfg.Gateway.Items {
				inventory.DepositItems(ctx, principal, item, cfg.Gateway.StartingItems)
			}
		}),
		websocket.WithState(func(ctx context.Context) ([]*replicationv1.Envelope, error) {
			var envs []*replicationv1.Envelope
			for _, venue := range reg.Venues() {
				l, ok := reg.Ledger(venue)
				if !ok {
					continue
				}
				state, err := replication.StateOf(l)
				if err != nil {
					return nil, err
				}
				envs = append(envs, state...)
			}
			return envs, nil
		}),
	)
	authority = replication.NewAuthority(reg, sessions, inventory, trust, hub, log)
	authority.Attach(reg)

	engine := app.NewEngineWithOptions(reg, snapshot.NewSnapshotStore(rclient, log), log, app.OptionsFromConfig(cfg))
	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.NewField("action", "start_engine"))
		return
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Gateway.Path, hub)
	health := healthcheck.HealthCheck{Dependencies: map[string]healthcheck.Pinger{"redis": rclient}}
	server := &http.Server{
		Addr:              cfg.Gateway.Addr,
		Handler:           health.Handler(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, logger.NewField("action", "serve_gateway"))
			sigChan <- syscall.SIGTERM
		}
	}()

	log.Info("Ledger server started",
		logger.NewField("addr", cfg.Gateway.Addr),
		logger.NewField("venues", reg.Venues()),
	)

	sig := <-sigChan
	log.Info("Received shutdown signal", logger.NewField("signal", sig.String()))

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.NewField("action", "stop_gateway"))
	}
	hub.Close()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.NewField("action", "stop_engine"))
	}

	log.Info("Ledger server shutdown complete")
}
