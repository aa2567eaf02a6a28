package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Provider struct {
		BaseURL      string        `yaml:"base_url"`
		APIKey       string        `yaml:"api_key"`
		Timeout      time.Duration `yaml:"timeout"`
		RetryBackoff time.Duration `yaml:"retry_backoff"`
		MaxPerMinute int           `yaml:"max_per_minute"`
		Symbols      []string      `yaml:"symbols"`
	} `yaml:"provider"`
	QuoteStream struct {
		Enabled        bool          `yaml:"enabled"`
		WebSocketURL   string        `yaml:"websocket_url"`
		APIKey         string        `yaml:"api_key"`
		Symbols        []string      `yaml:"symbols"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
		Freshness      time.Duration `yaml:"freshness"`
	} `yaml:"quote_stream"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Cache struct {
		Backend string        `yaml:"backend"` // memory or redis
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Forecast struct {
		Recommendation struct {
			BuyThresholdPct float64 `yaml:"buy_threshold_pct"`
		} `yaml:"recommendation"`
		Sequence struct {
			Epochs       int     `yaml:"epochs"`
			LearningRate float64 `yaml:"learning_rate"`
			HiddenUnits  int     `yaml:"hidden_units"`
		} `yaml:"sequence"`
		Arima struct {
			MaxIterations int     `yaml:"max_iterations"`
			Tolerance     float64 `yaml:"tolerance"`
		} `yaml:"arima"`
	} `yaml:"forecast"`
	Tax struct {
		ExchangeRate  float64 `yaml:"exchange_rate"`
		SEBIRate      float64 `yaml:"sebi_rate"`
		GSTRate       float64 `yaml:"gst_rate"`
		StampDutyRate float64 `yaml:"stamp_duty_rate"`
		BrokerageRate float64 `yaml:"brokerage_rate"`
		STT           struct {
			BuyLong   float64 `yaml:"buy_long"`
			SellLong  float64 `yaml:"sell_long"`
			BuyShort  float64 `yaml:"buy_short"`
			SellShort float64 `yaml:"sell_short"`
		} `yaml:"stt"`
	} `yaml:"tax"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

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

	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("QUOTE_STREAM_API_KEY"); v != "" {
		c.QuoteStream.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Provider.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = "https://www.alphavantage.co/query"
	}
	if c.Provider.Timeout <= 0 {
		c.Provider.Timeout = 15 * time.Second
	}
	if c.Provider.RetryBackoff <= 0 {
		c.Provider.RetryBackoff = 500 * time.Millisecond
	}
	if c.Provider.MaxPerMinute <= 0 {
		c.Provider.MaxPerMinute = 5
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = time.Minute
	}
	if c.QuoteStream.Freshness <= 0 {
		c.QuoteStream.Freshness = 30 * time.Second
	}
	if c.Forecast.Recommendation.BuyThresholdPct <= 0 {
		c.Forecast.Recommendation.BuyThresholdPct = 3.0
	}
	if c.Forecast.Sequence.Epochs <= 0 {
		c.Forecast.Sequence.Epochs = 200
	}
	if c.Forecast.Sequence.LearningRate <= 0 {
		c.Forecast.Sequence.LearningRate = 0.05
	}
	if c.Forecast.Sequence.HiddenUnits <= 0 {
		c.Forecast.Sequence.HiddenUnits = 8
	}
	if c.Forecast.Arima.MaxIterations <= 0 {
		c.Forecast.Arima.MaxIterations = 50
	}
	if c.Forecast.Arima.Tolerance <= 0 {
		c.Forecast.Arima.Tolerance = 1e-6
	}
	if c.Tax.ExchangeRate <= 0 {
		c.Tax.ExchangeRate = 0.0000325
	}
	if c.Tax.SEBIRate <= 0 {
		c.Tax.SEBIRate = 0.000001
	}
	if c.Tax.GSTRate <= 0 {
		c.Tax.GSTRate = 0.18
	}
	if c.Tax.StampDutyRate <= 0 {
		c.Tax.StampDutyRate = 0.00015
	}
	if c.Tax.STT.BuyLong <= 0 {
		c.Tax.STT.BuyLong = 0.001
	}
	if c.Tax.STT.SellLong <= 0 {
		c.Tax.STT.SellLong = 0.001
	}
	if c.Tax.STT.SellShort <= 0 {
		c.Tax.STT.SellShort = 0.00025
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.QuoteStream.Enabled {
		if c.QuoteStream.WebSocketURL == "" {
			return fmt.Errorf("quote_stream.websocket_url is required when enabled")
		}
		if c.QuoteStream.APIKey == "" {
			return fmt.Errorf("quote_stream.api_key is required when enabled")
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
