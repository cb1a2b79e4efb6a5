package config

import (
	"errors"
	"fmt"
	"os"

	"listabot/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Telegram TelegramConfig `yaml:"telegram"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Bot      BotConfig      `yaml:"bot"`
	Roles    RolesConfig    `yaml:"roles"`
	API      APIConfig      `yaml:"api"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Debug    bool   `yaml:"debug"`
}

// StorageConfig selects the roster backend. "sheets" serves a shared
// Google spreadsheet, "csv" a local file for single-operator runs.
type StorageConfig struct {
	Backend string       `yaml:"backend"`
	CSVPath string       `yaml:"csv_path"`
	Google  GoogleConfig `yaml:"google"`
}

type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	ListTab         string `yaml:"list_tab"`
	RoleTabs        bool   `yaml:"role_tabs"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type BotConfig struct {
	ListPageSize      int  `yaml:"list_page_size"`
	EditPageSize      int  `yaml:"edit_page_size"`
	ClaimLimit        int  `yaml:"claim_limit"`
	RateLimitMessages int  `yaml:"rate_limit_messages"`
	RateLimitWindow   int  `yaml:"rate_limit_window"`
	SessionTTLSeconds int  `yaml:"session_ttl_seconds"`
	SendContactCards  bool `yaml:"send_contact_cards"`
}

// RolesConfig pins user IDs that are authorized regardless of the role
// tabs. The tabs remain the editable source for everyone else.
type RolesConfig struct {
	UserIDs  []int64 `yaml:"user_ids"`
	AdminIDs []int64 `yaml:"admin_ids"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	Port      int                `yaml:"port"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; exported variables win either way
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// expand ${VAR} references before parsing
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}

	switch c.Storage.Backend {
	case "sheets":
		if c.Storage.Google.CredentialsFile == "" {
			return errors.New("storage.google.credentials_file is required for the sheets backend")
		}
		if c.Storage.Google.SpreadsheetID == "" {
			return errors.New("storage.google.spreadsheet_id is required for the sheets backend")
		}
	case "csv":
		if c.Storage.CSVPath == "" {
			return errors.New("storage.csv_path is required for the csv backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.API.Enabled && c.API.Auth.Enabled && len(c.API.Auth.APIKeys) == 0 {
		return errors.New("api.auth.api_keys must not be empty when auth is enabled")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		if c.Storage.Google.SpreadsheetID != "" {
			c.Storage.Backend = "sheets"
		} else {
			c.Storage.Backend = "csv"
		}
	}
	if c.Storage.CSVPath == "" {
		c.Storage.CSVPath = "lista.csv"
	}
	if c.Storage.Google.ListTab == "" {
		c.Storage.Google.ListTab = "Lista"
	}

	if c.Bot.ListPageSize == 0 {
		c.Bot.ListPageSize = models.ListPageSize
	}
	if c.Bot.EditPageSize == 0 {
		c.Bot.EditPageSize = models.EditPageSize
	}
	if c.Bot.ClaimLimit == 0 {
		c.Bot.ClaimLimit = models.DefaultClaimLimit
	}
	if c.Bot.RateLimitMessages == 0 {
		c.Bot.RateLimitMessages = models.RateLimitMessages
	}
	if c.Bot.RateLimitWindow == 0 {
		c.Bot.RateLimitWindow = models.RateLimitWindow
	}
	if c.Bot.SessionTTLSeconds == 0 {
		c.Bot.SessionTTLSeconds = models.DefaultRedisTTL
	}

	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}

	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.API.Enabled && !c.API.Auth.Enabled {
		c.API.Auth.Enabled = true
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.RateLimit.RPS == 0 {
		c.API.RateLimit.RPS = 10
	}
	if c.API.RateLimit.Burst == 0 {
		c.API.RateLimit.Burst = 20
	}
}
