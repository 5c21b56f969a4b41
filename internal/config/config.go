// Package config предоставляет структуры и функции для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Окружения. Подмена claims из секции mock включается только в EnvLocal.
const (
	EnvLocal = "local"
	EnvProd  = "prod"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string            `yaml:"env" env-default:"prod"`
	StorageConnectionString string            `yaml:"storage_connection_string"`
	Mock                    map[string]string `yaml:"mock"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	API                     `yaml:"api"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env-default:"5m"`
}

// RabbitMQ структура для подключения к брокеру событий
type RabbitMQ struct {
	URL        string        `yaml:"url"`
	Exchange   string        `yaml:"exchange" env-default:"accounts"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"1h"`
}

// API настройки базового контроллера
type API struct {
	// ClaimsName ключ, под которым middleware кладёт claims в контекст запроса
	ClaimsName string `yaml:"claims_name" env-default:"claims"`
	// ForbiddenCheck проверка владельца ресурса; не заданная в конфиге считается включённой
	ForbiddenCheck *bool `yaml:"forbidden_check"`
}

// ForbiddenCheckEnabled включена ли проверка владельца ресурса.
func (a API) ForbiddenCheckEnabled() bool {
	return a.ForbiddenCheck == nil || *a.ForbiddenCheck
}

// RateLimit настройки ограничения частоты запросов на один IP
type RateLimit struct {
	RPS       float64 `yaml:"rps" env-default:"5"`
	Burst     int     `yaml:"burst" env-default:"10"`
	EvilAfter int     `yaml:"evil_after" env-default:"20"`
}

// ErrEmptySecret возвращается, если не задан ключ подписи токенов
var ErrEmptySecret = errors.New("jwt secret key is empty")

// Load читает конфиг по пути path и проверяет обязательные поля.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySecret)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига по переменной окружения CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// IsLocal сообщает, запущено ли приложение в окружении локальной разработки.
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  Password: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ:\n"+
			"  URL: %s\n"+
			"  Exchange: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  JWTSecretKey: %s\n"+
			"  TokenTTL: %s\n"+
			"API:\n"+
			"  ClaimsName: %s\n"+
			"  ForbiddenCheck: %t\n",
		c.Env,
		mask(c.StorageConnectionString),
		c.AddressRedis,
		mask(c.Password),
		c.DB,
		mask(c.URL),
		c.Exchange,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		mask(c.JWTSecretKey),
		c.TokenTTL,
		c.ClaimsName,
		c.ForbiddenCheckEnabled(),
	)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
