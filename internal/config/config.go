// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dictionary DictionaryConfig `yaml:"dictionary" mapstructure:"dictionary"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Translate  TranslateConfig  `yaml:"translate" mapstructure:"translate"`
	Inflect    InflectConfig    `yaml:"inflect" mapstructure:"inflect"`
	Audio      AudioConfig      `yaml:"audio" mapstructure:"audio"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// DictionaryConfig selects the dictionary source and locale path variant.
type DictionaryConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	Locale       string `yaml:"locale" mapstructure:"locale"`
	LanguagePath string `yaml:"language_path" mapstructure:"language_path"`
	// FallbackAPIBase enables the secondary JSON dictionary API when
	// non-empty; empty disables the fallback entirely.
	FallbackAPIBase string `yaml:"fallback_api_base" mapstructure:"fallback_api_base"`
}

// RelayConfig describes one CORS relay endpoint.
type RelayConfig struct {
	Name     string `yaml:"name" mapstructure:"name"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	Envelope bool   `yaml:"envelope" mapstructure:"envelope"`
}

// FetchConfig tunes the resilient fetcher.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	// RatePerHost caps outbound requests per second against each upstream
	// host (dictionary, translation, inflections, relays). 0 disables.
	RatePerHost float64       `yaml:"rate_per_host" mapstructure:"rate_per_host"`
	Relays      []RelayConfig `yaml:"relays" mapstructure:"relays"`
}

// TranslateConfig selects the translation service and language pair.
type TranslateConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Source  string `yaml:"source" mapstructure:"source"`
	Target  string `yaml:"target" mapstructure:"target"`
}

// InflectConfig selects the inflection reference source.
type InflectConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AudioConfig names the external playback and synthesis binaries.
type AudioConfig struct {
	PlayerPath string `yaml:"player_path" mapstructure:"player_path"`
	EspeakPath string `yaml:"espeak_path" mapstructure:"espeak_path"`
}

// StoreConfig configures the word store backends.
type StoreConfig struct {
	// Driver is "sqlite", "postgres" or "firestore". The firestore driver
	// keeps a local sqlite mirror as its offline fallback.
	Driver           string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL      string `yaml:"database_url" mapstructure:"database_url"`
	FirestoreProject string `yaml:"firestore_project" mapstructure:"firestore_project"`
	CredentialsFile  string `yaml:"credentials_file" mapstructure:"credentials_file"`
	OfflinePath      string `yaml:"offline_path" mapstructure:"offline_path"`
	// UserID is the authenticated user's namespace as issued by the auth
	// provider; "local" for unauthenticated use.
	UserID string `yaml:"user_id" mapstructure:"user_id"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEXIGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dictionary.base_url", "https://dictionary.cambridge.org")
	v.SetDefault("dictionary.locale", "")
	v.SetDefault("dictionary.language_path", "english")
	v.SetDefault("dictionary.fallback_api_base", "https://api.dictionaryapi.dev/api/v2")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.user_agent", "lexigo/1.0")
	v.SetDefault("fetch.rate_per_host", 5)
	v.SetDefault("translate.base_url", "https://api.mymemory.translated.net")
	v.SetDefault("translate.source", "en")
	v.SetDefault("translate.target", "vi")
	v.SetDefault("inflect.base_url", "https://en.wiktionary.org/wiki/")
	v.SetDefault("audio.player_path", "ffplay")
	v.SetDefault("audio.espeak_path", "espeak-ng")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "lexigo.db")
	v.SetDefault("store.offline_path", "lexigo-offline.db")
	v.SetDefault("store.user_id", "local")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
