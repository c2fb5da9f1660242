package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port        int `yaml:"port"`
		MetricsPort int `yaml:"metrics_port"`
	} `yaml:"server"`

	// Catalog selects where item profiles come from. An empty driver and file
	// means the built-in table.
	Catalog struct {
		File   string `yaml:"file"`
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
		Seed   bool   `yaml:"seed"`
	} `yaml:"catalog"`

	Simulation struct {
		Enabled  bool          `yaml:"enabled"`
		Interval time.Duration `yaml:"interval"`
		Seed     int64         `yaml:"seed"`
	} `yaml:"simulation"`

	// MQTT ingest is disabled when Broker is empty
	MQTT struct {
		Broker         string `yaml:"broker"`
		ClientID       string `yaml:"client_id"`
		Username       string `yaml:"username"`
		Password       string `yaml:"password"`
		ReadingsTopic  string `yaml:"readings_topic"`
		DashboardTopic string `yaml:"dashboard_topic"`
	} `yaml:"mqtt"`

	// Kafka sink is disabled when Brokers is empty
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
}

// Default returns the configuration used when nothing else is supplied
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.MetricsPort = 9090
	cfg.Catalog.Seed = true
	cfg.Simulation.Enabled = true
	cfg.Simulation.Interval = 5 * time.Second
	cfg.MQTT.ClientID = "coldstore"
	cfg.MQTT.ReadingsTopic = "coldstore/+/readings"
	cfg.MQTT.DashboardTopic = "coldstore/dashboard/{source}"
	cfg.Kafka.Topic = "coldstore.dashboard"
	return cfg
}

// Load builds the configuration from defaults, the YAML file at path (if it
// exists), a .env file (if it exists) and finally the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Printf("Config file %s not found, using defaults", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	// Load .env file if it exists
	_ = godotenv.Load()

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvInt("PORT", c.Server.Port)
	c.Server.MetricsPort = getEnvInt("METRICS_PORT", c.Server.MetricsPort)

	c.Catalog.File = getEnv("CATALOG_FILE", c.Catalog.File)
	c.Catalog.Driver = getEnv("CATALOG_DRIVER", c.Catalog.Driver)
	c.Catalog.DSN = getEnv("CATALOG_DSN", c.Catalog.DSN)
	c.Catalog.Seed = getEnvBool("CATALOG_SEED", c.Catalog.Seed)

	c.Simulation.Enabled = getEnvBool("SIMULATION_ENABLED", c.Simulation.Enabled)
	c.Simulation.Interval = getEnvDuration("SIMULATION_INTERVAL", c.Simulation.Interval)
	c.Simulation.Seed = int64(getEnvInt("SIMULATION_SEED", int(c.Simulation.Seed)))

	c.MQTT.Broker = getEnv("MQTT_BROKER", c.MQTT.Broker)
	c.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", c.MQTT.ClientID)
	c.MQTT.Username = getEnv("MQTT_USERNAME", c.MQTT.Username)
	c.MQTT.Password = getEnv("MQTT_PASSWORD", c.MQTT.Password)
	c.MQTT.ReadingsTopic = getEnv("MQTT_TOPIC_READINGS", c.MQTT.ReadingsTopic)
	c.MQTT.DashboardTopic = getEnv("MQTT_TOPIC_DASHBOARD", c.MQTT.DashboardTopic)

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		c.Kafka.Brokers = splitList(brokers)
	}
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)
}

// Validate checks the settings that would otherwise fail at runtime
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.MetricsPort <= 0 {
		return fmt.Errorf("server ports must be positive")
	}
	if c.Simulation.Enabled && c.Simulation.Interval <= 0 {
		return fmt.Errorf("simulation interval must be positive, got %s", c.Simulation.Interval)
	}
	if c.Catalog.Driver != "" && c.Catalog.DSN == "" {
		return fmt.Errorf("catalog driver %s needs a dsn", c.Catalog.Driver)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka brokers configured without a topic")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as int, using default: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as bool, using default: %v", key, err)
		return defaultValue
	}
	return boolValue
}

// getEnvDuration accepts a Go duration ("5s") or a bare number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(seconds * float64(time.Second))
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as duration, using default: %v", key, err)
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
