package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Mongo MongoConfig `mapstructure:"mongo"`
	} `mapstructure:"repositories"`
	Server   ServerConfig   `mapstructure:"server"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Mail     MailConfig     `mapstructure:"mail"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	DB             string        `mapstructure:"db"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout"`
}

type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type ServerConfig struct {
	HTTPPort       string          `mapstructure:"HTTPPort"`
	Timeout        time.Duration   `mapstructure:"HTTPTimeout"`
	AllowedOrigins []string        `mapstructure:"allowedOrigins"`
	RateLimit      RateLimitConfig `mapstructure:"rateLimit"`
	ResetRateLimit RateLimitConfig `mapstructure:"resetRateLimit"`
}

type JWTConfig struct {
	SecretKey  string        `mapstructure:"secretKey"`
	Issuer     string        `mapstructure:"issuer"`
	SessionTTL time.Duration `mapstructure:"sessionTTL"`
	ResetTTL   time.Duration `mapstructure:"resetTTL"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcryptCost"`
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// envBindings maps the deployment environment variables onto config keys.
var envBindings = map[string]string{
	"repositories.mongo.uri": "MONGO_URI",
	"repositories.mongo.db":  "DB_NAME",
	"jwt.secretKey":          "SECRET_KEY",
	"security.bcryptCost":    "SALT_ROUNDS",
	"mail.username":          "EMAIL",
	"mail.password":          "PASSWORD",
	"server.HTTPPort":        "PORT",
	"kafka.brokers":          "KAFKA_BROKERS",
}

func InitConfig() (Config, error) {
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	return load(v)
}

// LoadEmbedded reads only the embedded defaults plus the environment.
func LoadEmbedded() (Config, error) {
	v := viper.New()
	v.SetConfigType("yml")
	if err := v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
		return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
	}
	return load(v)
}

func load(v *viper.Viper) (Config, error) {
	var config Config

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// KAFKA_BROKERS arrives as a single comma separated string
	if len(config.Kafka.Brokers) == 1 && strings.Contains(config.Kafka.Brokers[0], ",") {
		config.Kafka.Brokers = strings.Split(config.Kafka.Brokers[0], ",")
	}
	if config.Mail.From == "" {
		config.Mail.From = config.Mail.Username
	}
	return config, nil
}

// Validate reports settings without which the service must not start.
func (c Config) Validate() error {
	var errs []error
	if c.JWT.SecretKey == "" {
		errs = append(errs, errors.New("jwt secret key (SECRET_KEY) is required"))
	}
	if c.Mail.Username == "" || c.Mail.Password == "" {
		errs = append(errs, errors.New("mail credentials (EMAIL, PASSWORD) are required"))
	}
	if c.Server.HTTPPort == "" {
		errs = append(errs, errors.New("http port (PORT) is required"))
	}
	if c.Repositories.Mongo.URI == "" || c.Repositories.Mongo.DB == "" {
		errs = append(errs, errors.New("mongo uri and database name are required"))
	}
	return errors.Join(errs...)
}
