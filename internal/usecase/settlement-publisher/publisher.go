package settlementpublisher

import (
	"context"
	"encoding/json"
	"strconv"

	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	"github.com/muhammadchandra19/venue-ledger/pkg/config"
	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
	"github.com/segmentio/kafka-go"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Payload is the record written to Kafka for every trade.
type Payload struct {
	BuyVenue    string                 `json:"buyVenue"`
	SellVenue   string                 `json:"sellVenue"`
	Item        string                 `json:"item"`
	BuyOrderID  string                 `json:"buyOrderId"`
	SellOrderID string                 `json:"sellOrderId"`
	Buyer       string                 `json:"buyer"`
	Seller      string                 `json:"seller"`
	Price       int64                  `json:"price"`
	Quantity    int64                  `json:"quantity"`
	Timestamp   *timestamppb.Timestamp `json:"timestamp"`
}

// FromSettlement converts a settlement event into its Kafka payload.
func FromSettlement(ev ledgerv1.SettlementEvent) *Payload {
	return &Payload{
		BuyVenue:    ev.BuyVenue,
		SellVenue:   ev.SellVenue,
		Item:        ev.Item(),
		BuyOrderID:  ev.Buy.ID.String(),
		SellOrderID: ev.Sell.ID.String(),
		Buyer:       ev.Buy.Creator,
		Seller:      ev.Sell.Creator,
		Price:       ev.Price,
		Quantity:    ev.Quantity,
		Timestamp:   timestamppb.New(ev.At),
	}
}

// Key partitions records by venue and item so trades of one market stay ordered.
func (p *Payload) Key() []byte {
	return []byte(p.BuyVenue + "/" + p.Item)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// SettlementSource is anything that publishes settlement events.
type SettlementSource interface {
	OnSettlement(fn func(ledgerv1.SettlementEvent))
}

// Publisher writes settlements to a Kafka topic.
type Publisher struct {
	writer messageWriter
	logger *logger.Logger
}

// NewPublisher creates an asynchronous Kafka publisher. Delivery failures are
// logged by the writer's completion callback.
func NewPublisher(cfg config.KafkaConfig, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.NewNop()
	}
	topic := logger.NewField("topic", cfg.Topic)
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error(errors.NewTracer("settlement_publish_error").Wrap(err), topic, logger.NewField("messages", len(messages)))
			}
		},
	}
	return newPublisher(writer, log)
}

func newPublisher(w messageWriter, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Publisher{writer: w, logger: log}
}

// Attach publishes every settlement raised by src.
func (p *Publisher) Attach(src SettlementSource) {
	src.OnSettlement(func(ev ledgerv1.SettlementEvent) {
		if err := p.Publish(context.Background(), ev); err != nil {
			p.logger.Error(err, logger.NewField("venue", ev.Venue))
		}
	})
}

// Publish writes one settlement. A cross-ledger trade is raised by both of
// its ledgers; only the buy side's copy is written.
func (p *Publisher) Publish(ctx context.Context, ev ledgerv1.SettlementEvent) error {
	if ev.Quantity <= 0 || ev.Venue != ev.BuyVenue {
		return nil
	}
	payload := FromSettlement(ev)
	value, err := json.Marshal(payload)
	if err != nil {
		return errors.NewTracer("settlement_marshal_error").Wrap(err)
	}

	msg := kafka.Message{
		Key:   payload.Key(),
		Value: value,
		Headers: []kafka.Header{
			{Key: "cross-ledger", Value: []byte(strconv.FormatBool(ev.CrossLedger()))},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err, logger.NewField("payload", payload))
		return errors.NewTracer("settlement_publish_error").Wrap(err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
