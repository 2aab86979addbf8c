package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"dev"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"` // stdout, stderr, or file path
	} `yaml:"logging"`
	Feed struct {
		Source         string        `yaml:"source" default:"binance"` // binance or replay
		WebSocketURL   string        `yaml:"websocket_url" default:"wss://stream.binance.com:443/ws"`
		Symbol         string        `yaml:"symbol" default:"BTCUSDT"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
		PingInterval   time.Duration `yaml:"ping_interval" default:"30s"`
	} `yaml:"feed"`
	Signal struct {
		ShortMAPeriod    int `yaml:"short_ma_period" default:"10"`
		LongMAPeriod     int `yaml:"long_ma_period" default:"30"`
		RSIPeriod        int `yaml:"rsi_period" default:"14"`
		MomentumPeriod   int `yaml:"momentum_period" default:"10"`
		VolatilityPeriod int `yaml:"volatility_period" default:"20"`
		MaxHistory       int `yaml:"max_history" default:"1000"`
	} `yaml:"signal"`
	Pipeline struct {
		BufferSize int `yaml:"buffer_size" default:"2000"`
	} `yaml:"pipeline"`
	Tape struct {
		Backend string `yaml:"backend" default:"none"` // none, kafka, or clickhouse
	} `yaml:"tape"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"apexlob.trades"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"1s"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Replay struct {
			GroupID string `yaml:"group_id" default:"apexlob-replay"`
		} `yaml:"replay"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"apexlob"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Channel  string `yaml:"channel" default:"apexlob.signals"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file, applying struct defaults
// for anything the file leaves out.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SYMBOL"); v != "" {
		c.Feed.Symbol = v
	}
	if v := os.Getenv("FEED_SOURCE"); v != "" {
		c.Feed.Source = v
	}
	if v := os.Getenv("TAPE_BACKEND"); v != "" {
		c.Tape.Backend = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Feed.Symbol == "" {
		return fmt.Errorf("feed.symbol is required")
	}
	switch c.Feed.Source {
	case "binance", "replay":
	default:
		return fmt.Errorf("feed.source must be 'binance' or 'replay', got '%s'", c.Feed.Source)
	}
	switch c.Tape.Backend {
	case "none", "kafka", "clickhouse":
	default:
		return fmt.Errorf("tape.backend must be 'none', 'kafka', or 'clickhouse', got '%s'", c.Tape.Backend)
	}
	if (c.Tape.Backend == "kafka" || c.Feed.Source == "replay") && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers are required for the configured mode")
	}
	if c.Tape.Backend == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required for the clickhouse tape backend")
	}
	if c.Signal.LongMAPeriod <= c.Signal.ShortMAPeriod {
		return fmt.Errorf("signal.long_ma_period must exceed signal.short_ma_period")
	}
	return nil
}
