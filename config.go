package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Supported record store backends.
const (
	StorageFile     = "file"
	StorageBolt     = "bolt"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string         `yaml:"git_commit" envconfig:"BKLB_GIT_COMMIT"`
	GitTag             string         `yaml:"git_tag" envconfig:"BKLB_GIT_TAG"`
	BuildTime          string         `yaml:"build_time" envconfig:"BKLB_BUILD_TIME"`
	IsProduction       bool           `yaml:"is_production" envconfig:"BKLB_IS_PRODUCTION"`
	LogLevel           zapcore.Level  `yaml:"log_level" envconfig:"BKLB_LOG_LEVEL"`
	LogFile            string         `yaml:"log_file" envconfig:"BKLB_LOG_FILE"`
	ProfilerEnable     bool           `yaml:"profiler_enable" envconfig:"BKLB_PROFILER_ENABLE"`
	OpsEndpointsEnable bool           `yaml:"ops_endpoints_enable" envconfig:"BKLB_OPS_ENDPOINTS_ENABLE"`
	Server             ServerConfig   `yaml:"server"`
	Storage            StorageConfig  `yaml:"storage"`
	Redis              RedisConfig    `yaml:"redis"`
	BoltDB             BoltDBConfig   `yaml:"boltdb"`
	Postgres           PostgresConfig `yaml:"postgres"`
	Replica            ReplicaConfig  `yaml:"replica"`
	Client             ClientConfig   `yaml:"client"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BKLB_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BKLB_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BKLB_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BKLB_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BKLB_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BKLB_SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageConfig selects the record store backend.
type StorageConfig struct {
	Kind     string `yaml:"kind" envconfig:"BKLB_STORAGE_KIND"`
	FilePath string `yaml:"file_path" envconfig:"BKLB_STORAGE_FILE_PATH"`
	Key      string `yaml:"key" envconfig:"BKLB_STORAGE_KEY"` // document name for bolt, redis and postgres
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BKLB_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BKLB_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BKLB_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BKLB_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BKLB_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BKLB_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BKLB_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BKLB_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BKLB_REDIS_PASSWORD" json:"-"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BKLB_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BKLB_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BKLB_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BKLB_BOLTDB_BUCKET_NAME"`
}

type PostgresConfig struct {
	DSN            string        `yaml:"dsn" envconfig:"BKLB_POSTGRES_DSN" json:"-"`
	MaxConns       int32         `yaml:"max_conns" envconfig:"BKLB_POSTGRES_MAX_CONNS"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"BKLB_POSTGRES_CONNECT_TIMEOUT"`
}

// ReplicaConfig controls the snapshot replication into boltdb.
type ReplicaConfig struct {
	Enable bool   `yaml:"enable" envconfig:"BKLB_REPLICA_ENABLE"`
	Queue  string `yaml:"queue" envconfig:"BKLB_REPLICA_QUEUE"`
}

type ClientConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"BKLB_CLIENT_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" envconfig:"BKLB_CLIENT_TIMEOUT"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if config.Server.RequestTimeout == 0 {
		config.Server.RequestTimeout = 30 * time.Second
	}

	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = 10 * time.Second
	}

	if config.LogFile == "" {
		config.LogFile = "./logs/book-library.log"
	}

	if config.Storage.Kind == "" {
		config.Storage.Kind = StorageFile
	}

	if config.Storage.FilePath == "" {
		config.Storage.FilePath = "./books.json"
	}

	if config.Storage.Key == "" {
		config.Storage.Key = "books"
	}

	if config.BoltDB.BucketName == "" {
		config.BoltDB.BucketName = "books"
	}

	if config.BoltDB.Timeout == 0 {
		config.BoltDB.Timeout = 5 * time.Second
	}

	if config.Replica.Queue == "" {
		config.Replica.Queue = SnapshotQueue
	}

	if config.Client.BaseURL == "" {
		config.Client.BaseURL = "http://localhost:3000"
	}

	if config.Client.Timeout == 0 {
		config.Client.Timeout = 10 * time.Second
	}

	switch config.Storage.Kind {
	case StorageFile, StorageBolt:
	case StorageRedis:
	case StoragePostgres:
		if len(config.Postgres.DSN) == 0 {
			return errors.New("make sure to set a valid postgres dsn in configuration file")
		}
	default:
		return fmt.Errorf("unknown storage kind %q", config.Storage.Kind)
	}

	if config.NeedsRedis() && (len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0) {
		return errors.New("make sure to set valid redis address and port in configuration file")
	}

	if config.NeedsBolt() && len(config.BoltDB.FilePath) == 0 {
		return errors.New("make sure to set a valid boltdb file path in configuration file")
	}

	return nil
}

// NeedsRedis tells if a redis connection is required by the setup.
func (c *Config) NeedsRedis() bool {
	return c.Storage.Kind == StorageRedis || c.Replica.Enable
}

// NeedsBolt tells if a boltdb database is required by the setup.
func (c *Config) NeedsBolt() bool {
	return c.Storage.Kind == StorageBolt || c.Replica.Enable
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration. The file is optional.
	err = godotenv.Load("./config.env")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `BKLB`.
	err = LoadConfigEnvs("BKLB", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
