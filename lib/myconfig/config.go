package myconfig

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName  string     `yaml:"service_name" env:"SERVICE_NAME" env-default:"shopcart"`
	Port         string     `yaml:"port" env:"PORT" env-default:"8080"`
	GRPCPort     string     `yaml:"grpc_port" env:"GRPC_PORT" env-default:"8081"`
	ProjectID    string     `yaml:"project_id" env:"GOOGLE_CLOUD_PROJECT"`
	OTLPEndpoint string     `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Cart         CartConfig `yaml:"cart"`
}

type CartConfig struct {
	// UnitPrice is the flat price per unit in cents
	UnitPrice int64  `yaml:"unit_price" env:"CART_UNIT_PRICE" env-default:"100"`
	Currency  string `yaml:"currency" env:"CART_CURRENCY" env-default:"EUR"`
}

// Load reads the config file at path when given, the environment otherwise.
// Environment variables always take precedence; an optional .env file is loaded first.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if path == "" {
		err := cleanenv.ReadEnv(&cfg)
		if err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
