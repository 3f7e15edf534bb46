package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvProduction Environment = "production"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Asia/Seoul"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Auth struct {
		// "user:pass,user2:pass2"; empty disables basic auth.
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:""`
		BasicClients       []ConfigBasicClient
	}

	Store struct {
		ConfigFile string `env:"STORE_CONFIG_FILE" envDefault:"data/config.json"`
		BackupDir  string `env:"STORE_BACKUP_DIR" envDefault:"data/backups"`
	}

	Cache struct {
		Enabled  bool `env:"CACHE_ENABLED" envDefault:"true"`
		DaysSize int  `env:"CACHE_DAYS_SIZE" envDefault:"64"`
	}

	Watcher struct {
		Enabled bool `env:"WATCHER_ENABLED" envDefault:"true"`
	}

	Poller struct {
		Enabled        bool `env:"POLLER_ENABLED" envDefault:"true"`
		IntervalSecs   int  `env:"POLLER_INTERVAL_SECONDS" envDefault:"60"`
		WarningMinutes int  `env:"POLLER_WARNING_MINUTES" envDefault:"5"`
	}

	AMQP struct {
		Enabled    bool   `env:"AMQP_ENABLED"`
		URL        string `env:"AMQP_URL"`
		Exchange   string `env:"AMQP_EXCHANGE" envDefault:"timetable.events"`
		RoutingKey string `env:"AMQP_ROUTING_KEY" envDefault:"period.transition"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	cfg.Auth.BasicClients = []ConfigBasicClient{}
	if cfg.Auth.BasicClientsString != "" {
		for _, pair := range strings.Split(cfg.Auth.BasicClientsString, ",") {
			parts := strings.Split(pair, ":")
			if len(parts) == 2 {
				cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
					Username: parts[0],
					Password: parts[1],
				})
			}
		}
	}

	if cfg.Poller.IntervalSecs <= 0 {
		cfg.Poller.IntervalSecs = 60
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return !c.IsLocal()
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poller.IntervalSecs) * time.Second
}
