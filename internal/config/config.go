package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. PULSE_SERVER_PORT.
const EnvPrefix = "PULSE"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Sources   SourcesConfig   `yaml:"sources" envconfig:"SOURCES"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Dashboard DashboardConfig `yaml:"dashboard" envconfig:"DASHBOARD"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST" default:""`
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s" validate:"gt=0"`
}

// Address returns the listen address
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080" validate:"min=1,dive,required"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/athletepulse.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	ExportDir string `yaml:"export_dir" envconfig:"EXPORT_DIR" default:"exports" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Source kinds
const (
	SourceExcel  = "excel"
	SourceSheets = "sheets"
)

// SourcesConfig selects where the three tables are read from. Excel paths left
// empty are discovered in the data directory.
type SourcesConfig struct {
	Kind          string        `yaml:"kind" envconfig:"KIND" default:"excel" validate:"oneof=excel sheets"`
	GlobalPath    string        `yaml:"global_path" envconfig:"GLOBAL_PATH"`
	PhysicalPath  string        `yaml:"physical_path" envconfig:"PHYSICAL_PATH"`
	AfterGamePath string        `yaml:"after_game_path" envconfig:"AFTER_GAME_PATH"`
	LoadTimeout   time.Duration `yaml:"load_timeout" envconfig:"LOAD_TIMEOUT" default:"30s" validate:"gt=0"`

	SpreadsheetID   string `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID" validate:"required_if=Kind sheets"`
	GlobalRange     string `yaml:"global_range" envconfig:"GLOBAL_RANGE" default:"Global"`
	PhysicalRange   string `yaml:"physical_range" envconfig:"PHYSICAL_RANGE" default:"Physical"`
	AfterGameRange  string `yaml:"after_game_range" envconfig:"AFTER_GAME_RANGE" default:"After Game"`
	APIKey          string `yaml:"api_key" envconfig:"API_KEY"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"athletepulse" validate:"required"`
	ServiceVersion string `yaml:"service_version" envconfig:"SERVICE_VERSION" default:"1.0.0"`
	Environment    string `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	TracesExporter string `yaml:"traces_exporter" envconfig:"TRACES_EXPORTER" default:"none" validate:"oneof=stdout none"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED" default:"true"`
}

// DashboardConfig tunes the athlete views
type DashboardConfig struct {
	RecentGames           int     `yaml:"recent_games" envconfig:"RECENT_GAMES" default:"5" validate:"min=1,max=100"`
	SatisfactionThreshold float64 `yaml:"satisfaction_threshold" envconfig:"SATISFACTION_THRESHOLD" default:"60" validate:"gte=0,lte=100"`
	SuggestionCount       int     `yaml:"suggestion_count" envconfig:"SUGGESTION_COUNT" default:"3" validate:"min=0,max=20"`
	MajorKeyword          string  `yaml:"major_keyword" envconfig:"MAJOR_KEYWORD" default:"Major" validate:"required"`
	MinorKeyword          string  `yaml:"minor_keyword" envconfig:"MINOR_KEYWORD" default:"Minor" validate:"required"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" default:"1024"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" default:"1024"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD" default:"54s" validate:"gt=0,ltfield=PongWait"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT" default:"60s" validate:"gt=0"`
}

// Load loads configuration from environment variables and an optional YAML
// file. Environment variables win; the file fills fields the environment left
// at their defaults. An empty path searches the usual locations.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		fileConfig, keys, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		mergeConfigs(reflect.ValueOf(&cfg).Elem(), reflect.ValueOf(fileConfig).Elem(), reflect.ValueOf(Default()).Elem(), keys)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file. keys holds the raw
// document so the merge can tell an explicit false or 0 from an absent key.
func loadFromFile(filePath string) (*Config, map[interface{}]interface{}, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, nil, err
	}
	keys := make(map[interface{}]interface{})
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, nil, err
	}

	return &cfg, keys, nil
}

// mergeConfigs copies file values into env for every leaf the file sets and
// the environment left at its default.
func mergeConfigs(env, file, defaults reflect.Value, keys map[interface{}]interface{}) {
	t := env.Type()
	for i := 0; i < env.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("yaml"), ",", 2)[0]
		raw, ok := keys[name]
		if !ok {
			continue
		}
		ef, ff, df := env.Field(i), file.Field(i), defaults.Field(i)
		if ef.Kind() == reflect.Struct {
			if nested, ok := raw.(map[interface{}]interface{}); ok {
				mergeConfigs(ef, ff, df, nested)
			}
			continue
		}
		if reflect.DeepEqual(ef.Interface(), df.Interface()) {
			ef.Set(ff)
		}
	}
}

var structValidator = validator.New()

// validate validates the configuration
func (c *Config) validate() error {
	if err := structValidator.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	if c.Sources.Kind == SourceSheets && c.Sources.APIKey == "" && c.Sources.CredentialsFile == "" {
		return fmt.Errorf("sheets source needs an api key or a credentials file")
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q needs a file path", c.Logging.Output)
	}
	return nil
}

// getConfigFilePath returns the first config file found in the usual locations
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration. It matches the default tags.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/athletepulse.log",
		},
		Paths: PathsConfig{
			DataDir:   "data",
			ExportDir: "exports",
			LogsDir:   "logs",
		},
		Sources: SourcesConfig{
			Kind:           SourceExcel,
			LoadTimeout:    30 * time.Second,
			GlobalRange:    "Global",
			PhysicalRange:  "Physical",
			AfterGameRange: "After Game",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			ServiceVersion: AppVersion,
			Environment:    "development",
			TracesExporter: "none",
			MetricsEnabled: true,
		},
		Dashboard: DashboardConfig{
			RecentGames:           5,
			SatisfactionThreshold: 60,
			SuggestionCount:       3,
			MajorKeyword:          "Major",
			MinorKeyword:          "Minor",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      54 * time.Second,
			PongWait:        60 * time.Second,
		},
	}
}
