package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"logscope/internal/app/errors"
)

// Config represents the application configuration
type Config struct {
	Logging struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"logging" yaml:"logging"`
	Sources struct {
		Dir     string       `mapstructure:"dir" yaml:"dir"`
		Pattern string       `mapstructure:"pattern" yaml:"pattern"`
		Files   []SourceFile `mapstructure:"-" yaml:"-"`
	} `mapstructure:"sources" yaml:"sources"`
	Buffer struct {
		Capacity int `mapstructure:"capacity" yaml:"capacity"`
		Backlog  int `mapstructure:"backlog" yaml:"backlog"`
		Queue    int `mapstructure:"queue" yaml:"queue"`
	} `mapstructure:"buffer" yaml:"buffer"`
	Tail struct {
		Start        string        `mapstructure:"start" yaml:"start"`
		PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
		RetryBackoff time.Duration `mapstructure:"retry_backoff" yaml:"retry_backoff"`
		MaxBackoff   time.Duration `mapstructure:"max_backoff" yaml:"max_backoff"`
	} `mapstructure:"tail" yaml:"tail"`
	Modes struct {
		CrashKeywords   []string `mapstructure:"crash_keywords" yaml:"crash_keywords"`
		SpeechKeywords  []string `mapstructure:"speech_keywords" yaml:"speech_keywords"`
		DialogueSources []string `mapstructure:"dialogue_sources" yaml:"dialogue_sources"`
	} `mapstructure:"modes" yaml:"modes"`
	Parser struct {
		Zones map[string]int `mapstructure:"zones" yaml:"zones"`
	} `mapstructure:"parser" yaml:"parser"`
	Stats struct {
		Window time.Duration `mapstructure:"window" yaml:"window"`
	} `mapstructure:"stats" yaml:"stats"`
	Engine struct {
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	} `mapstructure:"engine" yaml:"engine"`
	Stream struct {
		SocketDir string `mapstructure:"socket_dir" yaml:"socket_dir"`
		Name      string `mapstructure:"name" yaml:"name"`
	} `mapstructure:"stream" yaml:"stream"`
	Telemetry struct {
		SentryDSN string `mapstructure:"sentry_dsn" yaml:"sentry_dsn"`
	} `mapstructure:"telemetry" yaml:"telemetry"`
	Version int `mapstructure:"version" yaml:"version"`
}

// SourceFile maps a log filename inside the sources dir to a source name
type SourceFile struct {
	Name   string
	Source string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	cfg := &Config{Version: 1}

	cfg.Logging.Level = DefaultLogLevel
	cfg.Logging.Format = DefaultLogFormat

	cfg.Sources.Dir = DefaultSourceDir
	cfg.Sources.Pattern = DefaultSourcePattern
	cfg.Sources.Files = []SourceFile{}

	cfg.Buffer.Capacity = DefaultBufferCapacity
	cfg.Buffer.Backlog = DefaultBufferCapacity
	cfg.Buffer.Queue = DefaultQueueSize

	cfg.Tail.Start = StartFromEnd
	cfg.Tail.PollInterval = DefaultPollInterval
	cfg.Tail.RetryBackoff = DefaultRetryBackoff
	cfg.Tail.MaxBackoff = DefaultMaxBackoff

	cfg.Modes.CrashKeywords = append([]string(nil), DefaultCrashKeywords...)
	cfg.Modes.SpeechKeywords = append([]string(nil), DefaultSpeechKeywords...)
	cfg.Modes.DialogueSources = append([]string(nil), DefaultDialogueSources...)

	cfg.Parser.Zones = make(map[string]int, len(DefaultZones))
	for abbr, offset := range DefaultZones {
		cfg.Parser.Zones[abbr] = offset
	}

	cfg.Stats.Window = DefaultStatsWindow
	cfg.Engine.ShutdownTimeout = ShutdownTimeout

	cfg.Stream.SocketDir = SocketDir
	cfg.Stream.Name = DefaultStreamName

	return cfg
}

// Load loads the configuration from logscope.yaml in the working directory
func Load() (*Config, error) {
	return LoadFile(ConfigFile)
}

// LoadFile loads the configuration from the given file, applying .env and LOGSCOPE_* overrides
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(filepath.Dir(path), EnvFile)); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToLoadEnv, err)
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setViperDefaults(v, cfg)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.ErrFailedToReadConfig
	}

	if err == nil {
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, errors.ErrFailedToReadConfig
		}

		files, err := parseSourceFiles(data)
		if err != nil {
			return nil, errors.ErrFailedToParseConfig
		}

		cfg.Sources.Files = files
	}

	customZones := v.IsSet("parser.zones")
	if customZones {
		cfg.Parser.Zones = nil
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.ErrFailedToParseConfig
	}

	if customZones {
		cfg.Parser.Zones = mergeZones(DefaultZones, cfg.Parser.Zones)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	return cfg, nil
}

// setViperDefaults registers scalar defaults so environment overrides apply without a config file
func setViperDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("sources.dir", cfg.Sources.Dir)
	v.SetDefault("sources.pattern", cfg.Sources.Pattern)
	v.SetDefault("buffer.capacity", cfg.Buffer.Capacity)
	v.SetDefault("buffer.backlog", 0)
	v.SetDefault("buffer.queue", cfg.Buffer.Queue)
	v.SetDefault("tail.start", cfg.Tail.Start)
	v.SetDefault("tail.poll_interval", cfg.Tail.PollInterval)
	v.SetDefault("tail.retry_backoff", cfg.Tail.RetryBackoff)
	v.SetDefault("tail.max_backoff", cfg.Tail.MaxBackoff)
	v.SetDefault("stats.window", cfg.Stats.Window)
	v.SetDefault("engine.shutdown_timeout", cfg.Engine.ShutdownTimeout)
	v.SetDefault("stream.socket_dir", cfg.Stream.SocketDir)
	v.SetDefault("stream.name", cfg.Stream.Name)
	v.SetDefault("telemetry.sentry_dsn", cfg.Telemetry.SentryDSN)
	v.SetDefault("version", cfg.Version)
}

// parseSourceFiles walks sources.files keeping document order and filename case,
// which viper loses by lowercasing keys and splitting them on dots
func parseSourceFiles(data []byte) ([]SourceFile, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	files := []SourceFile{}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return files, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return files, nil
	}

	for i := 0; i < len(doc.Content); i += 2 {
		key := doc.Content[i]
		value := doc.Content[i+1]

		if key.Value != "sources" || value.Kind != yaml.MappingNode {
			continue
		}

		for j := 0; j < len(value.Content); j += 2 {
			fieldKey := value.Content[j]
			fieldValue := value.Content[j+1]

			if fieldKey.Value != "files" {
				continue
			}

			switch fieldValue.Kind {
			case yaml.MappingNode:
				for k := 0; k < len(fieldValue.Content); k += 2 {
					files = append(files, SourceFile{
						Name:   strings.TrimSpace(fieldValue.Content[k].Value),
						Source: strings.TrimSpace(fieldValue.Content[k+1].Value),
					})
				}
			case yaml.SequenceNode:
				for _, item := range fieldValue.Content {
					files = append(files, SourceFile{Name: strings.TrimSpace(item.Value)})
				}
			default:
				return nil, fmt.Errorf("sources.files must be a mapping or a list")
			}
		}
	}

	return files, nil
}

// ApplyDefaults fills values derived from other settings
func (c *Config) ApplyDefaults() {
	if c.Buffer.Backlog == 0 {
		c.Buffer.Backlog = c.Buffer.Capacity
	}

	for i := range c.Sources.Files {
		if c.Sources.Files[i].Source == "" {
			c.Sources.Files[i].Source = SourceNameFromFile(c.Sources.Files[i].Name)
		}
	}

	c.Tail.Start = strings.ToLower(strings.TrimSpace(c.Tail.Start))
}

// mergeZones overlays configured zone offsets on the defaults. Keys are upper-cased since viper
// lower-cases map keys
func mergeZones(defaults, custom map[string]int) map[string]int {
	zones := make(map[string]int, len(defaults)+len(custom))
	for abbr, offset := range defaults {
		zones[strings.ToUpper(abbr)] = offset
	}

	for abbr, offset := range custom {
		zones[strings.ToUpper(strings.TrimSpace(abbr))] = offset
	}

	return zones
}

// SourceNames returns configured source names in declaration order
func (c *Config) SourceNames() []string {
	names := make([]string, 0, len(c.Sources.Files))
	seen := make(map[string]bool, len(c.Sources.Files))

	for _, f := range c.Sources.Files {
		if seen[f.Source] {
			continue
		}

		seen[f.Source] = true
		names = append(names, f.Source)
	}

	return names
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateSources(); err != nil {
		return err
	}

	if err := c.validateBuffer(); err != nil {
		return err
	}

	if err := c.validateTail(); err != nil {
		return err
	}

	if c.Stats.Window < time.Second {
		return errors.ErrInvalidStatsWindow
	}

	return nil
}

// validateSources validates the watched directory, file list and discovery pattern
func (c *Config) validateSources() error {
	if c.Sources.Dir == "" {
		return errors.ErrSourceDirRequired
	}

	if len(c.Sources.Files) == 0 && c.Sources.Pattern == "" {
		return errors.ErrNoSourcesConfigured
	}

	if c.Sources.Pattern != "" {
		if _, err := glob.Compile(c.Sources.Pattern); err != nil {
			return fmt.Errorf("%w: %w", errors.ErrInvalidGlobPattern, err)
		}
	}

	return nil
}

// validateBuffer validates ring, backlog and queue sizes
func (c *Config) validateBuffer() error {
	if c.Buffer.Capacity <= 0 {
		return errors.ErrInvalidBufferCapacity
	}

	if c.Buffer.Backlog <= 0 {
		return errors.ErrInvalidBacklogSize
	}

	if c.Buffer.Queue <= 0 {
		return errors.ErrInvalidQueueSize
	}

	return nil
}

// validateTail validates start mode and retry timings
func (c *Config) validateTail() error {
	switch c.Tail.Start {
	case StartFromEnd, StartFromStart:
	default:
		return fmt.Errorf("%w: '%s' (must be '%s' or '%s')", errors.ErrInvalidStartMode, c.Tail.Start, StartFromEnd, StartFromStart)
	}

	if c.Tail.PollInterval <= 0 {
		return errors.ErrInvalidPollInterval
	}

	if c.Tail.RetryBackoff <= 0 || c.Tail.RetryBackoff > c.Tail.MaxBackoff {
		return errors.ErrInvalidRetryBackoff
	}

	return nil
}

// SourceNameFromFile derives a source name from a log filename
func SourceNameFromFile(name string) string {
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}
