package config

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	viper "github.com/spf13/viper"
)

var config_singleton *ConfigSingleTon
var muonce sync.Once

type ConfigSingleTon struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	ModulerName string `mapstructure:"MODULER_NAME"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	DbName string `mapstructure:"POSTGRES_DB"`
	DbHost string `mapstructure:"POSTGRES_HOST"`
	DbPort string `mapstructure:"POSTGRES_PORT"`
	DbUser string `mapstructure:"POSTGRES_USER"`
	DbPas  string `mapstructure:"POSTGRES_PASSWORD"`

	// e.g. file://internal/infra/repository/db/migrations; empty falls back
	// to AutoMigrate
	MigrationURL string `mapstructure:"MIGRATION_URL"`

	// cart storage: "memory" or "redis"
	CartStore     string `mapstructure:"CART_STORE"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	AuthTokenKey string `mapstructure:"AUTH_TOKEN_KEY"`

	// checkout gateway
	GatewayBaseURL       string `mapstructure:"GATEWAY_BASE_URL"`
	GatewayAPIKey        string `mapstructure:"GATEWAY_API_KEY"`
	GatewayWebhookSecret string `mapstructure:"GATEWAY_WEBHOOK_SECRET"`
	CheckoutSuccessURL   string `mapstructure:"CHECKOUT_SUCCESS_URL"`
	CheckoutCancelURL    string `mapstructure:"CHECKOUT_CANCEL_URL"`

	// order events, optional
	KafkaEnabled bool   `mapstructure:"KAFKA_ENABLED"`
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	// policy flags, both default off
	AllowCancelPaid          bool `mapstructure:"ALLOW_CANCEL_PAID"`
	AutoCancelFailedPayments bool `mapstructure:"AUTO_CANCEL_FAILED_PAYMENTS"`
}

func (c *Config) KafkaBrokerList() []string {
	if c.KafkaBrokers == "" {
		return nil
	}
	return strings.Split(c.KafkaBrokers, ",")
}

func GetConfig() *Config {
	initConfig()
	config_singleton.mu.RLock()
	defer config_singleton.mu.RUnlock()
	return config_singleton.Config
}

func initConfig() {
	if config_singleton == nil {
		muonce.Do(func() {
			config_singleton = &ConfigSingleTon{}
			if cf, err := loadConfig(); err == nil {
				config_singleton.Config = cf
			} else {
				log.Fatal("error read config")
			}
			viper.WatchConfig()
			viper.OnConfigChange(func(e fsnotify.Event) {
				if cf, err := loadConfig(); err == nil {
					config_singleton.mu.Lock()
					config_singleton.Config = cf
					config_singleton.mu.Unlock()
				} else {
					log.Panic("failed to reload config file")
				}
			})
		})
	}
}

/*
returns error instead of Fatal, caller decides whether a fallback exists
*/
func loadConfig() (cf *Config, err error) {
	cf = &Config{}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = ".env"
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// a missing .env is fine, everything can come from the environment
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, err
			}
		}
		err = nil
	}

	if err = viper.Unmarshal(cf); err != nil {
		return nil, err
	}

	if cf.ServerPort == "" {
		cf.ServerPort = "8080"
	}
	if cf.CartStore == "" {
		cf.CartStore = "memory"
	}
	return cf, nil
}
