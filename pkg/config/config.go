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
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Providers struct {
		Series struct {
			BaseURL      string        `yaml:"base_url"`
			APIKey       string        `yaml:"api_key"`
			Timeout      time.Duration `yaml:"timeout"`
			RatePerMin   int           `yaml:"rate_per_min"`
		} `yaml:"series"`
		Quotes struct {
			BaseURL    string        `yaml:"base_url"`
			APIKey     string        `yaml:"api_key"`
			Timeout    time.Duration `yaml:"timeout"`
			RatePerMin int           `yaml:"rate_per_min"`
		} `yaml:"quotes"`
		Crypto struct {
			BaseURL    string        `yaml:"base_url"`
			Timeout    time.Duration `yaml:"timeout"`
			RatePerMin int           `yaml:"rate_per_min"`
		} `yaml:"crypto"`
		Sentiment struct {
			BaseURL    string        `yaml:"base_url"`
			Timeout    time.Duration `yaml:"timeout"`
			RatePerMin int           `yaml:"rate_per_min"`
		} `yaml:"sentiment"`
	} `yaml:"providers"`
	Cache struct {
		MacroTTL       time.Duration `yaml:"macro_ttl"`
		EquitiesTTL    time.Duration `yaml:"equities_ttl"`
		FXTTL          time.Duration `yaml:"fx_ttl"`
		CommoditiesTTL time.Duration `yaml:"commodities_ttl"`
		CryptoTTL      time.Duration `yaml:"crypto_ttl"`
		SentimentTTL   time.Duration `yaml:"sentiment_ttl"`
	} `yaml:"cache"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		EventsTopic  string   `yaml:"events_topic"`
		RefreshTopic string   `yaml:"refresh_topic"`
		GroupID      string   `yaml:"group_id"`
	} `yaml:"kafka"`
	Jobs struct {
		Workers    int           `yaml:"workers"`
		RetryLimit int           `yaml:"retry_limit"`
		RetryDelay time.Duration `yaml:"retry_delay"`
	} `yaml:"jobs"`
	Enhance struct {
		Timeout       time.Duration `yaml:"timeout"`
		OpenAIKey     string        `yaml:"openai_key"`
		GeminiKey     string        `yaml:"gemini_key"`
		AnthropicKey  string        `yaml:"anthropic_key"`
		OllamaBaseURL string        `yaml:"ollama_base_url"`
	} `yaml:"enhance"`
	Research struct {
		SearchURL string        `yaml:"search_url"`
		Timeout   time.Duration `yaml:"timeout"`
		Limit     int           `yaml:"limit"`
	} `yaml:"research"`
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

	if v := os.Getenv("SERIES_API_KEY"); v != "" {
		c.Providers.Series.APIKey = v
	}
	if v := os.Getenv("QUOTES_API_KEY"); v != "" {
		c.Providers.Quotes.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Enhance.OpenAIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Enhance.GeminiKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.Enhance.AnthropicKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Providers.Series.Timeout == 0 {
		c.Providers.Series.Timeout = 30 * time.Second
	}
	if c.Providers.Quotes.Timeout == 0 {
		c.Providers.Quotes.Timeout = 10 * time.Second
	}
	if c.Providers.Crypto.Timeout == 0 {
		c.Providers.Crypto.Timeout = 10 * time.Second
	}
	if c.Providers.Sentiment.Timeout == 0 {
		c.Providers.Sentiment.Timeout = 20 * time.Second
	}
	if c.Providers.Series.RatePerMin == 0 {
		c.Providers.Series.RatePerMin = 120
	}
	if c.Providers.Quotes.RatePerMin == 0 {
		c.Providers.Quotes.RatePerMin = 33
	}
	if c.Providers.Crypto.RatePerMin == 0 {
		c.Providers.Crypto.RatePerMin = 30
	}
	if c.Providers.Sentiment.RatePerMin == 0 {
		c.Providers.Sentiment.RatePerMin = 60
	}
	if c.Cache.MacroTTL == 0 {
		c.Cache.MacroTTL = time.Hour
	}
	if c.Cache.EquitiesTTL == 0 {
		c.Cache.EquitiesTTL = 15 * time.Minute
	}
	if c.Cache.FXTTL == 0 {
		c.Cache.FXTTL = 15 * time.Minute
	}
	if c.Cache.CommoditiesTTL == 0 {
		c.Cache.CommoditiesTTL = 15 * time.Minute
	}
	if c.Cache.CryptoTTL == 0 {
		c.Cache.CryptoTTL = 5 * time.Minute
	}
	if c.Cache.SentimentTTL == 0 {
		c.Cache.SentimentTTL = 15 * time.Minute
	}
	if c.Jobs.Workers == 0 {
		c.Jobs.Workers = 2
	}
	if c.Jobs.RetryLimit == 0 {
		c.Jobs.RetryLimit = 3
	}
	if c.Jobs.RetryDelay == 0 {
		c.Jobs.RetryDelay = 5 * time.Second
	}
	if c.Enhance.Timeout == 0 {
		c.Enhance.Timeout = 3 * time.Minute
	}
	if c.Enhance.OllamaBaseURL == "" {
		c.Enhance.OllamaBaseURL = "http://localhost:11434"
	}
	if c.Research.Timeout == 0 {
		c.Research.Timeout = 15 * time.Second
	}
	if c.Research.Limit == 0 {
		c.Research.Limit = 5
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	return nil
}
