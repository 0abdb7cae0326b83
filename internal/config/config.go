package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Language strategy values for ReplyConfig.LanguageStrategy.
const (
	LanguageFromLocaleTag = "fromLocaleTag"
	LanguageFixedDefault  = "fixedDefault"
)

// Config is the root configuration for floodbot. It is loaded once at
// startup and treated as read-only for the life of the process.
type Config struct {
	General  GeneralConfig  `json:"general"`
	Telegram TelegramConfig `json:"telegram"`
	Cards    CardsConfig    `json:"cards"`
	Reply    ReplyConfig    `json:"reply"`
	Locale   LocaleConfig   `json:"locale"`
	Server   ServerConfig   `json:"server"`
	Metrics  MetricsConfig  `json:"metrics"`
}

type GeneralConfig struct {
	LogLevel string `json:"logLevel"`
}

// TelegramConfig holds the Bot API endpoint and credential. The composed
// send URL is endpoint + token + "/sendmessage?...", so the endpoint
// includes the trailing "/bot" prefix.
type TelegramConfig struct {
	Endpoint       string `json:"endpoint"`
	Token          string `json:"token"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// CardsConfig points at the card API and the deep-link bases used when
// assembling intent cards.
type CardsConfig struct {
	APIBase        string `json:"apiBase"`
	APIKey         string `json:"apiKey,omitempty"`
	CardBaseURL    string `json:"cardBaseUrl"`
	PrepBaseURL    string `json:"prepBaseUrl"`
	MapBaseURL     string `json:"mapBaseUrl"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// ReplyConfig captures the behavioral variance between the two observed
// deployments as explicit flags instead of parallel implementations.
type ReplyConfig struct {
	SupportedIntents           []string `json:"supportedIntents"`
	LanguageStrategy           string   `json:"languageStrategy"`
	ForceLanguageOnCardIntents bool     `json:"forceLanguageOnCardIntents"`
	ForcedLanguage             string   `json:"forcedLanguage,omitempty"`
}

// PrepEnabled reports whether the prep intent is configured.
func (r ReplyConfig) PrepEnabled() bool {
	for _, it := range r.SupportedIntents {
		if it == "prep" {
			return true
		}
	}
	return false
}

type LocaleConfig struct {
	DefaultLanguage   string `json:"defaultLanguage"`
	DefaultRegionCode string `json:"defaultRegionCode"`
	CountryCode       string `json:"countryCode"`
	BundleDir         string `json:"bundleDir"`
}

type ServerConfig struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	WebhookPath string `json:"webhookPath"`
	ReportPath  string `json:"reportPath"`
}

type MetricsConfig struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
}

// DefaultConfigDir returns the default config directory (~/.floodbot).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".floodbot"
	}
	return filepath.Join(home, ".floodbot")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

func Load(path string) (*Config, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.Locale.BundleDir = ExpandPath(cfg.Locale.BundleDir)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // Keep original if no env var and no default
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 0 and 65535")
	}
	if !strings.HasPrefix(cfg.Server.WebhookPath, "/") {
		errs = append(errs, "server.webhookPath must start with /")
	}
	if !strings.HasPrefix(cfg.Server.ReportPath, "/") {
		errs = append(errs, "server.reportPath must start with /")
	}

	switch cfg.Reply.LanguageStrategy {
	case LanguageFromLocaleTag, LanguageFixedDefault:
		// valid
	default:
		errs = append(errs, "reply.languageStrategy must be one of: fromLocaleTag, fixedDefault")
	}
	for _, it := range cfg.Reply.SupportedIntents {
		if it != "flood" && it != "prep" {
			errs = append(errs, fmt.Sprintf("reply.supportedIntents contains unknown intent: %s", it))
		}
	}
	if cfg.Reply.ForceLanguageOnCardIntents && cfg.Reply.ForcedLanguage == "" {
		errs = append(errs, "reply.forcedLanguage is required when forceLanguageOnCardIntents is set")
	}

	if cfg.Locale.DefaultLanguage == "" {
		errs = append(errs, "locale.defaultLanguage must not be empty")
	}
	if cfg.Locale.DefaultRegionCode == "" {
		errs = append(errs, "locale.defaultRegionCode must not be empty")
	}
	if cfg.Locale.CountryCode == "" {
		errs = append(errs, "locale.countryCode must not be empty")
	}

	if cfg.Telegram.TimeoutSeconds < 1 {
		errs = append(errs, "telegram.timeoutSeconds must be >= 1")
	}
	if cfg.Cards.TimeoutSeconds < 1 {
		errs = append(errs, "cards.timeoutSeconds must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
