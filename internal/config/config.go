package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// AppName names the XDG data subdirectory.
const AppName = "plexicon"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Sources   SourcesConfig   `yaml:"sources"`
	LLM       LLMConfig       `yaml:"llm"`
	Reveal    RevealConfig    `yaml:"reveal"`
	Storage   StorageConfig   `yaml:"storage"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// RateLimitConfig limits how often one client may start a discovery.
type RateLimitConfig struct {
	DiscoverPerMinute int           `yaml:"discover_per_minute" env:"RATE_LIMIT_DISCOVER_PER_MINUTE" env-default:"30"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATE_LIMIT_CLEANUP_INTERVAL"    env-default:"5m"`
}

// LogConfig holds logging settings.
// File, when set, receives log output instead of stderr.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
	File   string `yaml:"file"   env:"LOG_FILE"`
}

// Source modes.
const (
	ModeDictionary = "dictionary"
	ModeGenerative = "generative"
)

// SourcesConfig selects and tunes the word and decoy upstreams.
type SourcesConfig struct {
	Mode                  string        `yaml:"mode"                    env:"SOURCES_MODE"                    env-default:"dictionary"`
	Timeout               time.Duration `yaml:"timeout"                 env:"SOURCES_TIMEOUT"                 env-default:"10s"`
	DatamuseURL           string        `yaml:"datamuse_url"            env:"SOURCES_DATAMUSE_URL"            env-default:"https://api.datamuse.com"`
	FreeDictionaryURL     string        `yaml:"free_dictionary_url"     env:"SOURCES_FREE_DICTIONARY_URL"     env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
	WiktionaryURLTemplate string        `yaml:"wiktionary_url_template" env:"SOURCES_WIKTIONARY_URL_TEMPLATE" env-default:"https://%s.wiktionary.org/w/api.php"`
	EnglishListSize       int           `yaml:"english_list_size"       env:"SOURCES_ENGLISH_LIST_SIZE"       env-default:"100"`
	WikiListSize          int           `yaml:"wiki_list_size"          env:"SOURCES_WIKI_LIST_SIZE"          env-default:"50"`
	MinWordLength         int           `yaml:"min_word_length"         env:"SOURCES_MIN_WORD_LENGTH"         env-default:"3"`
	MinExtractLength      int           `yaml:"min_extract_length"      env:"SOURCES_MIN_EXTRACT_LENGTH"      env-default:"10"`
	MaxDefinitionLength   int           `yaml:"max_definition_length"   env:"SOURCES_MAX_DEFINITION_LENGTH"   env-default:"190"`
	BreakMargin           int           `yaml:"break_margin"            env:"SOURCES_BREAK_MARGIN"            env-default:"40"`
}

// LLMConfig holds the generative source settings.
type LLMConfig struct {
	APIKey    string        `yaml:"api_key"    env:"LLM_API_KEY"`
	BaseURL   string        `yaml:"base_url"   env:"LLM_BASE_URL"`
	Model     string        `yaml:"model"      env:"LLM_MODEL"      env-default:"claude-haiku-4-5"`
	MaxTokens int64         `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"512"`
	Timeout   time.Duration `yaml:"timeout"    env:"LLM_TIMEOUT"    env-default:"30s"`
}

// RevealConfig paces the reveal cycle.
type RevealConfig struct {
	AnticipationDelay time.Duration `yaml:"anticipation_delay" env:"REVEAL_ANTICIPATION_DELAY" env-default:"2s"`
	DefinitionDelay   time.Duration `yaml:"definition_delay"   env:"REVEAL_DEFINITION_DELAY"   env-default:"2s"`
	DecoyCount        int           `yaml:"decoy_count"        env:"REVEAL_DECOY_COUNT"        env-default:"15"`
}

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StorageConfig selects the stats backend.
type StorageConfig struct {
	Driver     string         `yaml:"driver"      env:"STORAGE_DRIVER"      env-default:"file"`
	Key        string         `yaml:"key"         env:"STORAGE_KEY"         env-default:"lexicon_v3_stats"`
	Dir        string         `yaml:"dir"         env:"STORAGE_DIR"`
	SQLitePath string         `yaml:"sqlite_path" env:"STORAGE_SQLITE_PATH"`
	Postgres   DatabaseConfig `yaml:"postgres"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"5"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// DataDir returns the directory used by the file and sqlite drivers:
// Storage.Dir when set, otherwise the XDG data directory.
// On Linux: ~/.local/share/plexicon
func (s StorageConfig) DataDir() string {
	if s.Dir != "" {
		return s.Dir
	}
	return filepath.Join(xdg.DataHome, AppName)
}

// SQLiteFile returns SQLitePath, defaulting to plexicon.db in DataDir.
func (s StorageConfig) SQLiteFile() string {
	if s.SQLitePath != "" {
		return s.SQLitePath
	}
	return filepath.Join(s.DataDir(), AppName+".db")
}
