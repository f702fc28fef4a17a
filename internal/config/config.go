package config

import (
	"os"

	"github.com/go-yaml/yaml"

	"github.com/fanlane/backstage/internal/domain"
)

type Config struct {
	App    domain.Config `yaml:"app"`
	Server Server        `yaml:"server"`
}

type Server struct {
	Listen          string `yaml:"listen"`
	PostgresDsn     string `yaml:"postgresDsn"`
	RedisAddr       string `yaml:"redisAddr"`
	RedisPassword   string `yaml:"redisPassword"`
	RedisDB         int    `yaml:"redisDB"`
	MemcachedAddr   string `yaml:"memcachedAddr"`
	PaymentEndpoint string `yaml:"paymentEndpoint"`
	EnableTrace     bool   `yaml:"enableTrace"`
	TraceEndpoint   string `yaml:"traceEndpoint"`
}

func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.Listen == "" {
		config.Server.Listen = ":8000"
	}
	if config.App.DefaultView == "" {
		config.App.DefaultView = domain.ViewLanding
	}

	return config, nil
}
