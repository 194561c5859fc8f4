package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Oanda struct {
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		AccountID string `yaml:"account_id"`
	} `yaml:"oanda"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Instruments struct {
		Currencies  []string `yaml:"currencies"`
		Indices     []string `yaml:"indices"`
		Commodities []string `yaml:"commodities"`
	} `yaml:"instruments"`
	Bias struct {
		SQLitePath string `yaml:"sqlite_path"`
		FilePath   string `yaml:"file_path"`
	} `yaml:"bias"`
	Advisor struct {
		Enabled   bool   `yaml:"enabled"`
		OpenAIKey string `yaml:"openai_api_key"`
		Model     string `yaml:"model"`
	} `yaml:"advisor"`
	Schedule struct {
		PositionsCron string `yaml:"positions_cron"`
	} `yaml:"schedule"`
	RTM struct {
		CandleCount     int  `yaml:"candle_count"`
		IncludeLegacyH4 bool `yaml:"include_legacy_h4"`
	} `yaml:"rtm"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("OANDA_BASE_URL"); v != "" {
		cfg.Oanda.BaseURL = v
	}
	if v := os.Getenv("OANDA_API_KEY"); v != "" {
		cfg.Oanda.APIKey = v
	}
	if v := os.Getenv("OANDA_ACCOUNT_ID"); v != "" {
		cfg.Oanda.AccountID = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Advisor.OpenAIKey = v
	}
	if v := os.Getenv("BIAS_SQLITE_PATH"); v != "" {
		cfg.Bias.SQLitePath = v
	}
	if v := os.Getenv("BIAS_FILE_PATH"); v != "" {
		cfg.Bias.FilePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Oanda.BaseURL == "" {
		cfg.Oanda.BaseURL = "https://api-fxpractice.oanda.com"
	}
	if len(cfg.Instruments.Currencies) == 0 {
		cfg.Instruments.Currencies = []string{
			"EUR_USD", "GBP_USD", "USD_JPY", "USD_CHF", "AUD_USD", "USD_CAD", "NZD_USD",
			"EUR_GBP", "EUR_JPY", "GBP_JPY",
		}
	}
	if len(cfg.Instruments.Indices) == 0 {
		cfg.Instruments.Indices = []string{"SPX500_USD", "NAS100_USD", "US30_USD", "DE30_EUR", "UK100_GBP"}
	}
	if len(cfg.Instruments.Commodities) == 0 {
		cfg.Instruments.Commodities = []string{"XAU_USD", "XAG_USD", "BCO_USD", "WTICO_USD"}
	}
	if cfg.Schedule.PositionsCron == "" {
		// top of every hour
		cfg.Schedule.PositionsCron = "0 0 * * * *"
	}
	if cfg.RTM.CandleCount == 0 {
		cfg.RTM.CandleCount = 100
	}

	return cfg, nil
}

// Validate checks that all required fields are set. The broker API key
// is waived when the mock data source is enabled.
func (c *Config) Validate(mockData bool) error {
	if !mockData && c.Oanda.APIKey == "" {
		return fmt.Errorf("oanda.api_key is required")
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if c.RTM.CandleCount < 40 {
		return fmt.Errorf("rtm.candle_count must be at least 40")
	}
	if c.Advisor.Enabled && c.Advisor.OpenAIKey == "" {
		return fmt.Errorf("advisor.openai_api_key is required when the advisor is enabled")
	}
	return nil
}

// Categories maps URL category segments to their instrument lists.
func (c *Config) Categories() map[string][]string {
	return map[string][]string{
		"currencies":  c.Instruments.Currencies,
		"indices":     c.Instruments.Indices,
		"commodities": c.Instruments.Commodities,
	}
}
