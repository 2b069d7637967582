package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where LoadConfig looks for the optional YAML file
const DefaultPath = "configs/config.yaml"

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_$]+$`)

// Config structure represents the bootstrap configuration
type Config struct {
	MySQL struct {
		Host           string `yaml:"host" env:"MYSQL_HOST"`
		Port           int    `yaml:"port" env:"MYSQL_PORT"`
		User           string `yaml:"user" env:"MYSQL_USER"`
		Password       string `yaml:"password" env:"MYSQL_PASSWORD"`
		DBName         string `yaml:"dbname"`
		ConnectTimeout string `yaml:"connect_timeout" env:"MYSQL_CONNECT_TIMEOUT"`
	} `yaml:"mysql"`

	Setup struct {
		Strict bool `yaml:"strict" env:"EDUTRACK_STRICT"`
		Verify bool `yaml:"verify" env:"EDUTRACK_VERIFY"`
	} `yaml:"setup"`

	Seed struct {
		AdminName     string `yaml:"admin_name" env:"SEED_ADMIN_NAME"`
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional, environment alone is enough
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.MySQL.Host = "localhost"
	config.MySQL.Port = 3306
	config.MySQL.DBName = "edutrack"
	config.MySQL.ConnectTimeout = "10s"

	config.Seed.AdminName = "Administrator"

	config.Logging.Level = "info"
	config.Logging.Format = "text"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.MySQL.Host == "" {
		return fmt.Errorf("mysql host is required")
	}

	if config.MySQL.Port <= 0 || config.MySQL.Port > 65535 {
		return fmt.Errorf("mysql port %d is out of range", config.MySQL.Port)
	}

	if config.MySQL.User == "" {
		return fmt.Errorf("MYSQL_USER is required")
	}

	if config.MySQL.Password == "" {
		return fmt.Errorf("MYSQL_PASSWORD is required")
	}

	if !identifierPattern.MatchString(config.MySQL.DBName) {
		return fmt.Errorf("invalid database name %q", config.MySQL.DBName)
	}

	if _, err := time.ParseDuration(config.MySQL.ConnectTimeout); err != nil {
		return fmt.Errorf("invalid mysql connect timeout format: %w", err)
	}

	if config.Seed.AdminEmail != "" && config.Seed.AdminPassword == "" {
		return fmt.Errorf("SEED_ADMIN_PASSWORD is required when SEED_ADMIN_EMAIL is set")
	}

	return nil
}

// ConnectTimeout returns the parsed dial timeout
func (c *Config) ConnectTimeout() time.Duration {
	d, err := time.ParseDuration(c.MySQL.ConnectTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetMySQLServerDSN returns a server-level DSN with no default database selected.
func (c *Config) GetMySQLServerDSN() string {
	dsn := mysql.NewConfig()
	dsn.User = c.MySQL.User
	dsn.Passwd = c.MySQL.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(c.MySQL.Host, strconv.Itoa(c.MySQL.Port))
	dsn.Timeout = c.ConnectTimeout()
	dsn.ParseTime = true
	return dsn.FormatDSN()
}
