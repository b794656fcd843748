package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	HTTP struct {
		Addr      string
		RateLimit string `mapstructure:"rate_limit"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN            string
		MaxConns       int32         `mapstructure:"max_conns"`
		MinConns       int32         `mapstructure:"min_conns"`
		ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
		RetryAttempts  uint64        `mapstructure:"retry_attempts"`
		RetryDelay     time.Duration `mapstructure:"retry_delay"`
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
		TTL      time.Duration
	} `mapstructure:"redis"`

	Telegram struct {
		Token       string
		AdminChatID int64 `mapstructure:"admin_chat_id"`
	} `mapstructure:"telegram"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("http.addr", ":5000")
	v.SetDefault("postgres.max_conns", 15)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.connect_timeout", 5*time.Second)
	v.SetDefault("postgres.retry_attempts", 3)
	v.SetDefault("postgres.retry_delay", time.Second)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.ttl", 5*time.Minute)
}

// Load reads the YAML file at path; APP_* environment variables (and a
// local .env file, if present) override it, e.g. APP_POSTGRES_DSN.
func Load(path string) (Config, error) {
	_ = gotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
