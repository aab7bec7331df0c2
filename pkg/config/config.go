package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	historyv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/history/v1"
	"github.com/muhammadchandra19/venue-ledger/pkg/redis"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load()

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and an optional
// .env file. A missing .env file is not an error.
func Load[T any](cfg T, files ...string) error {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return err
		}
	} else {
		_ = godotenv.Load()
	}

	return env.Parse(cfg)
}

// Config holds the configuration of the ledger server.
type Config struct {
	App       AppConfig        `envPrefix:"APP_"`
	Scheduler SchedulerConfig  `envPrefix:"SCHEDULER_"`
	History   historyv1.Config `envPrefix:"HISTORY_"`
	Redis     redis.Config     `envPrefix:"REDIS_"`
	Kafka     KafkaConfig      `envPrefix:"KAFKA_"`
	Gateway   GatewayConfig    `envPrefix:"GATEWAY_"`
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Name     string   `env:"NAME" envDefault:"venue-ledger"`
	LogLevel string   `env:"LOG_LEVEL" envDefault:"info"`
	Venues   []string `env:"VENUES" envDefault:"main"`
}

// SchedulerConfig drives the engine loops.
type SchedulerConfig struct {
	TickInterval     time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	SnapshotInterval time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"30s"`
}

// KafkaConfig holds the configuration for the settlement publisher.
type KafkaConfig struct {
	Enabled      bool          `env:"ENABLED" envDefault:"false"`
	Topic        string        `env:"TOPIC" envDefault:"settlements"`
	Brokers      []string      `env:"BROKERS" envDefault:"localhost:9092"`
	BatchTimeout time.Duration `env:"BATCH_TIMEOUT" envDefault:"50ms"`
}

// GatewayConfig holds the configuration for the WebSocket gateway.
type GatewayConfig struct {
	Addr          string        `env:"ADDR" envDefault:":8080"`
	Path          string        `env:"PATH" envDefault:"/ws"`
	SendBuffer    int           `env:"SEND_BUFFER" envDefault:"16"`
	WriteTimeout  time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	MaxDistance   float64       `env:"MAX_DISTANCE" envDefault:"16"`
	StartingMoney int64         `env:"STARTING_MONEY" envDefault:"0"`
	StartingItems int64         `env:"STARTING_ITEMS" envDefault:"0"`
	Items         []string      `env:"ITEMS"`
}
