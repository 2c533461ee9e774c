// Package config loads the tablistplus configuration.
//
// A configuration holds the plugin settings (refresh interval, worker count,
// logging, admin API, hidden-player store) and the declarative tab list
// definition that pkg/tablist turns into layout components.
//
// Files are decoded by extension: .yml and .yaml with gopkg.in/yaml.v3,
// .toml with github.com/BurntSushi/toml. Both decoders reject unknown keys,
// so a typo in a component definition fails loudly instead of silently
// producing a different layout.
//
//	cfg, err := config.Load("config.yml")
//	if err != nil {
//	    return err
//	}
//	interval := cfg.Interval()
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tablistplus/pkg/errors"
)

// Defaults applied by ValidateAndSetDefaults.
const (
	DefaultUpdateInterval  = 1.0
	DefaultWorkers         = 2
	DefaultLogLevel        = "info"
	DefaultHTTPAddr        = "127.0.0.1:8089"
	DefaultTabSize         = 80
	DefaultColumns         = 4
	DefaultStoreBackend    = BackendMemory
	DefaultStorePath       = "hidden-players.json"
	DefaultRedisAddr       = "localhost:6379"
	DefaultRedisKey        = "tablistplus:hidden"
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "tablistplus"
	DefaultMongoCollection = "hidden_players"
)

// Store backends.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the root of a configuration file.
type Config struct {
	// UpdateInterval is the refresh interval in seconds. Values <= 0 disable
	// periodic refreshes; tab lists are then only sent on events.
	UpdateInterval *float64 `yaml:"tablist_update_interval" toml:"tablist_update_interval"`

	// Workers is the number of tab lists refreshed in parallel.
	Workers int `yaml:"workers" toml:"workers"`

	Log     LogConfig     `yaml:"log" toml:"log"`
	HTTP    HTTPConfig    `yaml:"http" toml:"http"`
	Store   StoreConfig   `yaml:"store" toml:"store"`
	TabList TabListConfig `yaml:"tablist" toml:"tablist"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// HTTPConfig configures the admin API.
type HTTPConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// StoreConfig selects and configures the hidden-player store.
type StoreConfig struct {
	Backend string `yaml:"backend" toml:"backend"`

	// file
	Path string `yaml:"path" toml:"path"`

	// redis
	RedisAddr     string `yaml:"redis_addr" toml:"redis_addr"`
	RedisPassword string `yaml:"redis_password" toml:"redis_password"`
	RedisDB       int    `yaml:"redis_db" toml:"redis_db"`
	RedisKey      string `yaml:"redis_key" toml:"redis_key"`

	// mongo
	MongoURI        string `yaml:"mongo_uri" toml:"mongo_uri"`
	MongoDatabase   string `yaml:"mongo_database" toml:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection" toml:"mongo_collection"`
}

// TabListConfig is the declarative tab list.
type TabListConfig struct {
	Size       int            `yaml:"size" toml:"size"`
	Columns    int            `yaml:"columns" toml:"columns"`
	Components []ComponentDef `yaml:"components" toml:"components"`
}

// Load reads, decodes and validates the configuration file at path.
func Load(path string) (*Config, error) {
	if err := errors.ValidateConfigPath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data, formatOf(path))
}

// Parse decodes and validates a configuration. format is "yaml" or "toml".
func Parse(data []byte, format string) (*Config, error) {
	var c Config
	switch format {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing yaml config")
		}
	case "toml":
		md, err := toml.Decode(string(data), &c)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing toml config")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported config format %q", format)
	}
	if err := c.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &c, nil
}

func formatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// Default returns a validated configuration with the built-in tab list: a
// header row, every online player and a footer row.
func Default() *Config {
	c := &Config{
		TabList: TabListConfig{
			Components: []ComponentDef{
				{Type: TypeText, Text: "Tablist+"},
				{Type: TypeSpacer, Size: 3},
				{Type: TypePlayers, Filter: "*", Align: true, Overflow: "... and {count} more"},
				{Type: TypeFill},
				{Type: TypeText, Text: "tablistplus", Align: true},
			},
		},
	}
	if err := c.ValidateAndSetDefaults(); err != nil {
		panic(err)
	}
	return c
}

// ValidateAndSetDefaults checks the configuration and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (c *Config) ValidateAndSetDefaults() error {
	if c.validated {
		return nil
	}
	if c.UpdateInterval == nil {
		v := DefaultUpdateInterval
		c.UpdateInterval = &v
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be positive, got %d", c.Workers)
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}

	if err := c.Store.setDefaults(); err != nil {
		return err
	}
	if err := c.TabList.validate(); err != nil {
		return err
	}
	c.validated = true
	return nil
}

// Interval returns the refresh interval. A zero duration means periodic
// refreshes are disabled.
func (c *Config) Interval() time.Duration {
	if c.UpdateInterval == nil {
		return time.Duration(DefaultUpdateInterval * float64(time.Second))
	}
	if *c.UpdateInterval <= 0 {
		return 0
	}
	return time.Duration(*c.UpdateInterval * float64(time.Second))
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func (s *StoreConfig) setDefaults() error {
	if s.Backend == "" {
		s.Backend = DefaultStoreBackend
	}
	switch s.Backend {
	case BackendNone, BackendMemory:
	case BackendFile:
		if s.Path == "" {
			s.Path = DefaultStorePath
		}
	case BackendRedis:
		if s.RedisAddr == "" {
			s.RedisAddr = DefaultRedisAddr
		}
		if s.RedisKey == "" {
			s.RedisKey = DefaultRedisKey
		}
		if s.RedisDB < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "store.redis_db must not be negative")
		}
	case BackendMongo:
		if s.MongoURI == "" {
			s.MongoURI = DefaultMongoURI
		}
		if s.MongoDatabase == "" {
			s.MongoDatabase = DefaultMongoDatabase
		}
		if s.MongoCollection == "" {
			s.MongoCollection = DefaultMongoCollection
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", s.Backend)
	}
	return nil
}

func (t *TabListConfig) validate() error {
	if t.Size == 0 {
		t.Size = DefaultTabSize
	}
	if t.Columns == 0 {
		t.Columns = DefaultColumns
	}
	if err := errors.ValidateTabSize(t.Size); err != nil {
		return err
	}
	if err := errors.ValidateColumns(t.Columns, t.Size); err != nil {
		return err
	}
	for i := range t.Components {
		if err := t.Components[i].validate(fmt.Sprintf("tablist.components[%d]", i), t.Columns); err != nil {
			return err
		}
	}
	return nil
}
