package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds server settings. An empty backend address leaves that
// backend unwired.
type Config struct {
	Env           string
	HTTPAddr      string
	GRPCAddr      string
	MySQLDSN      string
	RedisAddr     string
	MongoURI      string
	MongoDatabase string
	RabbitMQURL   string
	WorkerCount   int
	QueueSize     int
	SessionTTL    time.Duration
	AccountDomain string
}

func (c Config) Production() bool {
	return c.Env == "production"
}

// Load reads an optional .env file, then the process environment.
func Load(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.SetDefault("ENV", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GRPC_ADDR", ":50051")
	v.SetDefault("MYSQL_DSN", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DATABASE", "canteen")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("WORKER_COUNT", 10)
	v.SetDefault("QUEUE_SIZE", 10000)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("ACCOUNT_DOMAIN", "achariya.app")
	v.AutomaticEnv()

	c := Config{
		Env:           v.GetString("ENV"),
		HTTPAddr:      v.GetString("HTTP_ADDR"),
		GRPCAddr:      v.GetString("GRPC_ADDR"),
		MySQLDSN:      v.GetString("MYSQL_DSN"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		MongoURI:      v.GetString("MONGO_URI"),
		MongoDatabase: v.GetString("MONGO_DATABASE"),
		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		WorkerCount:   v.GetInt("WORKER_COUNT"),
		QueueSize:     v.GetInt("QUEUE_SIZE"),
		SessionTTL:    v.GetDuration("SESSION_TTL"),
		AccountDomain: v.GetString("ACCOUNT_DOMAIN"),
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("QUEUE_SIZE must be positive, got %d", c.QueueSize)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.AccountDomain == "" {
		return fmt.Errorf("ACCOUNT_DOMAIN must not be empty")
	}
	return nil
}
