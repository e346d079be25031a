package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override file values,
// e.g. DUMMY_DATABASE_PASSWORD or DUMMY_AUTH_JWT_SECRET.
const EnvPrefix = "DUMMY"

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Dummy    DummyConfig    `yaml:"dummy"`
	Schema   SchemaConfig   `yaml:"schema"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins" split_words:"true"`
	TemplatesDir   string   `yaml:"templates_dir" split_words:"true"`
}

type DatabaseConfig struct {
	Provider string `yaml:"provider"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode" split_words:"true"`
	// Schema is the schema the inspector and generator work in. Defaults to
	// Name for MySQL, "public" for PostgreSQL and "main" for SQLite.
	Schema       string `yaml:"schema"`
	MaxOpenConns int    `yaml:"max_open_conns" split_words:"true"`
}

// DSN returns the driver specific data source name. URL, when set, wins.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	switch d.Provider {
	case "mysql":
		c := mysql.NewConfig()
		c.User = d.User
		c.Passwd = d.Password
		c.Net = "tcp"
		c.Addr = d.Host + ":" + strconv.Itoa(d.Port)
		c.DBName = d.Name
		c.ParseTime = true
		return c.FormatDSN()
	case "sqlite", "sqlite3":
		return d.Name
	default:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	}
}

// RedactedDSN is the DSN with the password masked, for display.
func (d DatabaseConfig) RedactedDSN() string {
	if d.URL != "" {
		return d.Provider + "://(url from config)"
	}
	if d.Password != "" {
		d.Password = "****"
	}
	return d.DSN()
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers         []string `yaml:"brokers"`
	GenerationTopic string   `yaml:"generation_topic" split_words:"true"`
	GroupID         string   `yaml:"group_id" split_words:"true"`
	PublishAttempts int      `yaml:"publish_attempts" split_words:"true"`
}

type AuthConfig struct {
	JWTSecret         string       `yaml:"jwt_secret" split_words:"true"`
	SessionTTLMinutes int          `yaml:"session_ttl_minutes" split_words:"true"`
	CookieName        string       `yaml:"cookie_name" split_words:"true"`
	Users             []UserConfig `yaml:"users" ignored:"true"`
}

type UserConfig struct {
	Username string `yaml:"username"`
	// PasswordHash is a bcrypt hash.
	PasswordHash string `yaml:"password_hash"`
}

type DummyConfig struct {
	MaxBatch        int           `yaml:"max_batch" split_words:"true"`
	MaxDrawAttempts int           `yaml:"max_draw_attempts" split_words:"true"`
	InsertBatchSize int           `yaml:"insert_batch_size" split_words:"true"`
	Seed            int64         `yaml:"seed"`
	Bookings        BookingConfig `yaml:"bookings"`
}

type BookingConfig struct {
	FlightIDMin    int64 `yaml:"flight_id_min" split_words:"true"`
	FlightIDMax    int64 `yaml:"flight_id_max" split_words:"true"`
	PassengerIDMin int64 `yaml:"passenger_id_min" split_words:"true"`
	PassengerIDMax int64 `yaml:"passenger_id_max" split_words:"true"`
	PriceMinCents  int64 `yaml:"price_min_cents" split_words:"true"`
	PriceMaxCents  int64 `yaml:"price_max_cents" split_words:"true"`
}

type SchemaConfig struct {
	// ViewSources maps a view name to its source table for views whose
	// definition cannot be resolved by parsing.
	ViewSources map[string]string `yaml:"view_sources" ignored:"true"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// LoadConfig reads .env files, the YAML file at path and DUMMY_* environment
// overrides, in that order, then applies defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultPath:
		// env-only configuration
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultPath is used when neither CONFIG_PATH nor a flag names a file.
const DefaultPath = "config.yaml"

// PathFromEnv returns CONFIG_PATH or DefaultPath.
func PathFromEnv() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Database.Provider == "" {
		c.Database.Provider = "mysql"
	}
	if c.Database.Schema == "" {
		switch c.Database.Provider {
		case "mysql":
			c.Database.Schema = c.Database.Name
		case "sqlite", "sqlite3":
			c.Database.Schema = "main"
		default:
			c.Database.Schema = "public"
		}
	}
	if c.Database.Port == 0 {
		switch c.Database.Provider {
		case "mysql":
			c.Database.Port = 3306
		case "postgres", "postgresql":
			c.Database.Port = 5432
		}
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Auth.SessionTTLMinutes == 0 {
		c.Auth.SessionTTLMinutes = 60
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "dummy_session"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "dummy-audit"
	}
	if c.Kafka.PublishAttempts == 0 {
		c.Kafka.PublishAttempts = 3
	}

	d := &c.Dummy
	if d.MaxBatch == 0 {
		d.MaxBatch = 100000
	}
	if d.MaxDrawAttempts == 0 {
		d.MaxDrawAttempts = 1000
	}
	if d.InsertBatchSize == 0 {
		d.InsertBatchSize = 500
	}

	b := &d.Bookings
	if b.FlightIDMin == 0 && b.FlightIDMax == 0 {
		b.FlightIDMin, b.FlightIDMax = 100000, 500000
	}
	if b.PassengerIDMin == 0 && b.PassengerIDMax == 0 {
		b.PassengerIDMin, b.PassengerIDMax = 10000, 30001
	}
	if b.PriceMinCents == 0 && b.PriceMaxCents == 0 {
		b.PriceMinCents, b.PriceMaxCents = 99, 1000000
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	switch c.Database.Provider {
	case "mysql", "postgres", "postgresql", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("unsupported database provider: %s", c.Database.Provider)
	}

	b := c.Dummy.Bookings
	if b.FlightIDMin > b.FlightIDMax {
		return errors.New("dummy.bookings: flight_id_min is greater than flight_id_max")
	}
	if b.PassengerIDMin > b.PassengerIDMax {
		return errors.New("dummy.bookings: passenger_id_min is greater than passenger_id_max")
	}
	if b.PriceMinCents < 0 || b.PriceMinCents > b.PriceMaxCents {
		return errors.New("dummy.bookings: invalid price bounds")
	}
	if c.Dummy.MaxBatch < 0 || c.Dummy.InsertBatchSize < 0 || c.Dummy.MaxDrawAttempts < 0 {
		return errors.New("dummy: limits must not be negative")
	}
	return nil
}
