package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	pkgtls "github.com/nubian-marketplace/catalog-service/pkg/tls"
)

type Config struct {
	Port             string `envconfig:"PORT" default:"8080"`
	AWSRegion        string `envconfig:"AWS_REGION" default:"af-south-1"`
	ProductTableName string `envconfig:"PRODUCT_TABLE_NAME" default:"nubian-products"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	LocalMode        bool   `envconfig:"LOCAL_MODE" default:"true"` // run without AWS

	KafkaBrokers       string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaConsumerGroup string `envconfig:"KAFKA_CONSUMER_GROUP" default:"catalog-service"`
	OrderEventsTopic   string `envconfig:"ORDER_EVENTS_TOPIC" default:"order-events"`
	ProductEventsTopic string `envconfig:"PRODUCT_EVENTS_TOPIC" default:"product-events"`
	KafkaEnabled       bool   `envconfig:"KAFKA_ENABLED" default:"false"`

	TLS pkgtls.TLSConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load() // optional .env for local runs

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
