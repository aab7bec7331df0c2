package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
	"github.com/muhammadchandra19/venue-ledger/internal/infrastructure/inmem"
	"github.com/muhammadchandra19/venue-ledger/internal/infrastructure/websocket"
	"github.com/muhammadchandra19/venue-ledger/internal/usecase/replication"
	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
)

type generatorConfig struct {
	count       int
	delay       time.Duration
	basePrice   int64
	priceSpread int64
	maxQuantity int64
	items       []string
}

// nextOrder draws a buy or a sell around basePrice. Buys lean below the
// base and sells above it so that only part of the flow crosses.
func nextOrder(cfg generatorConfig, inventory string) (buy *replicationv1.CreateBuyRequest, sell *replicationv1.CreateSellRequest) {
	item := cfg.items[rand.IntN(len(cfg.items))]
	quantity := 1 + rand.Int64N(cfg.maxQuantity)
	offset := rand.Int64N(cfg.priceSpread + 1)

	if rand.IntN(2) == 0 {
		price := max(cfg.basePrice-offset*4/5, 1)
		return &replicationv1.CreateBuyRequest{Inventory: inventory, Item: item, Price: price, Quantity: quantity}, nil
	}
	price := max(cfg.basePrice+offset*4/5-cfg.priceSpread/4, 1)
	return nil, &replicationv1.CreateSellRequest{Inventory: inventory, Item: item, Price: price, Quantity: quantity}
}

func main() {
	var (
		gateway     = flag.String("url", "ws://localhost:8080/ws", "Gateway WebSocket URL")
		principal   = flag.String("principal", "generator", "Principal to connect as; also the inventory used")
		venue       = flag.String("venue", "main", "Venue to trade at")
		items       = flag.String("items", "iron,gold", "Items to trade (comma-separated)")
		delay       = flag.Duration("delay", 100*time.Millisecond, "Delay between requests")
		count       = flag.Int("count", 1000, "Number of requests to send")
		basePrice   = flag.Int64("base-price", 100, "Base price for orders")
		priceSpread = flag.Int64("price-spread", 20, "Price spread range")
		maxQuantity = flag.Int64("max-quantity", 10, "Largest order quantity")
		money       = flag.Int64("money", 1_000_000, "Money the local view assumes the inventory holds")
		stock       = flag.Int64("stock", 10_000, "Stock per item the local view assumes the inventory holds")
	)
	flag.Parse()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := generatorConfig{
		count:       *count,
		delay:       *delay,
		basePrice:   *basePrice,
		priceSpread: *priceSpread,
		maxQuantity: max(*maxQuantity, 1),
		items:       strings.Split(*items, ","),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mirror := replication.NewMirror(*venue, log)
	conn, err := websocket.Dial(ctx, *gateway, *principal, func(env *replicationv1.Envelope) {
		if env.Type == replicationv1.TypeValidationFailed {
			var failed replicationv1.ValidationFailed
			if err := env.Decode(&failed); err == nil {
				log.Warn("request rejected", logger.NewField("code", failed.Code), logger.NewField("message", failed.Message))
			}
			return
		}
		if err := mirror.ApplyEnvelope(env); err != nil {
			log.Error(err, logger.NewField("type", string(env.Type)))
		}
	}, log)
	if err != nil {
		log.Error(err, logger.NewField("action", "dial_gateway"))
		return
	}
	defer conn.Close()

	// The local view only gates obviously doomed requests; the server's
	// inventory decides.
	view := inmem.NewInventory(0)
	view.DepositMoney(ctx, *principal, *money)
	for _, item := range cfg.items {
		view.DepositItems(ctx, *principal, item, *stock)
	}

	client, err := replication.NewClient("", *principal, mirror, view,
		replication.WithSender(conn), replication.WithClientLogger(log))
	if err != nil {
		log.Error(err, logger.NewField("action", "create_client"))
		return
	}

	log.Info("Sending requests",
		logger.NewField("gateway", *gateway),
		logger.NewField("venue", *venue),
		logger.NewField("count", cfg.count),
	)

	ticker := time.NewTicker(cfg.delay)
	defer ticker.Stop()

	sent := 0
	for sent < cfg.count {
		select {
		case <-ctx.Done():
			log.Info("Interrupted", logger.NewField("sent", sent))
			return
		case <-conn.Done():
			log.Warn("Gateway closed the connection", logger.NewField("sent", sent))
			return
		case <-ticker.C:
		}

		buy, sell := nextOrder(cfg, *principal)
		if buy != nil {
			err = client.RequestCreateBuy(ctx, *buy)
		} else {
			err = client.RequestCreateSell(ctx, *sell)
		}
		if err != nil {
			if errors.IsValidation(err) {
				log.Debug("skipped doomed request", logger.NewField("code", errors.CodeOf(err)))
				continue
			}
			log.Error(err, logger.NewField("action", "send_request"))
			return
		}
		sent++
	}

	log.Info("Finished sending requests",
		logger.NewField("sent", sent),
		logger.NewField("mirroredOrders", mirror.Len()),
	)
}
