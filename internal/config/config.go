package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration for the kreuzberg coordinator.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Input    InputConfig    `mapstructure:"input"`
	Output   OutputConfig   `mapstructure:"output"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Postgres StoreConfig    `mapstructure:"postgres"`
	MySQL    StoreConfig    `mapstructure:"mysql"`
	MongoDB  StoreConfig    `mapstructure:"mongodb"`
	Elastic  ElasticConfig  `mapstructure:"elasticsearch"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// InputConfig describes the read-only input mount.
type InputConfig struct {
	Dir        string   `mapstructure:"dir"`
	Extensions []string `mapstructure:"extensions"`
	SkipHidden bool     `mapstructure:"skip_hidden"`
}

// OutputConfig describes the writable output location for manifests.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// IngestConfig controls coordinator parallelism and retry budget.
type IngestConfig struct {
	Workers    int           `mapstructure:"workers"`
	BatchSize  int           `mapstructure:"batch_size"`
	RetryCount int           `mapstructure:"retry_count"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// StoreConfig is the connection profile for one backing store. Each
// store is independently optional; an unconfigured or unreachable
// optional store is skipped rather than failing the job.
type StoreConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Required        bool          `mapstructure:"required"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ElasticConfig is the connection profile for the search index.
type ElasticConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Required bool   `mapstructure:"required"`
	URL      string `mapstructure:"url"`
	Index    string `mapstructure:"index"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// Load reads configuration from file and environment.
// Resolution order: explicit path argument, KREUZBERG_CONFIG env var,
// then ./configs/config.yaml or ./config.yaml.
// Parameters:
//   - configPath: config file path; empty uses defaults above.
// Returns:
//   - *Config: populated configuration.
//   - error: non-nil if the file exists but cannot be read or decoded.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	if configPath == "" {
		configPath = os.Getenv("KREUZBERG_CONFIG")
	}

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for credentials
	v.BindEnv("input.dir", "KREUZBERG_INPUT_DIR")
	v.BindEnv("output.dir", "KREUZBERG_OUTPUT_DIR")
	v.BindEnv("postgres.host", "POSTGRES_HOST")
	v.BindEnv("postgres.user", "POSTGRES_USER")
	v.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	v.BindEnv("postgres.database", "POSTGRES_DB")
	v.BindEnv("mysql.host", "MYSQL_HOST")
	v.BindEnv("mysql.user", "MYSQL_USER")
	v.BindEnv("mysql.password", "MYSQL_PASSWORD")
	v.BindEnv("mysql.database", "MYSQL_DATABASE")
	v.BindEnv("mongodb.host", "MONGO_HOST")
	v.BindEnv("mongodb.user", "MONGO_INITDB_ROOT_USERNAME")
	v.BindEnv("mongodb.password", "MONGO_INITDB_ROOT_PASSWORD")
	v.BindEnv("elasticsearch.url", "ELASTICSEARCH_URL")
	v.BindEnv("elasticsearch.user", "ELASTIC_USER")
	v.BindEnv("elasticsearch.password", "ELASTIC_PASSWORD")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("input.dir", "/data/input")
	v.SetDefault("input.extensions", []string{})
	v.SetDefault("input.skip_hidden", true)
	v.SetDefault("output.dir", "/data/output")

	v.SetDefault("ingest.workers", 4)
	v.SetDefault("ingest.batch_size", 32)
	v.SetDefault("ingest.retry_count", 3)
	v.SetDefault("ingest.retry_delay", "500ms")

	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.database", "kreuzberg")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", "30m")

	v.SetDefault("mysql.enabled", false)
	v.SetDefault("mysql.host", "localhost")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.database", "kreuzberg")
	v.SetDefault("mysql.max_open_conns", 10)
	v.SetDefault("mysql.max_idle_conns", 5)
	v.SetDefault("mysql.conn_max_lifetime", "30m")

	v.SetDefault("mongodb.enabled", false)
	v.SetDefault("mongodb.host", "localhost")
	v.SetDefault("mongodb.port", 27017)
	v.SetDefault("mongodb.database", "kreuzberg")

	v.SetDefault("elasticsearch.enabled", false)
	v.SetDefault("elasticsearch.url", "http://localhost:9200")
	v.SetDefault("elasticsearch.index", "documents")
}
