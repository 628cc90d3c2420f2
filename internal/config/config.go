package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config reúne toda a configuração da aplicação
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Postgres  PostgresConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	TLS       TLSConfig
	Bootstrap BootstrapConfig
}

// ServerConfig contém as configurações do servidor HTTP
type ServerConfig struct {
	Port            string
	Environment     string
	BasePath        string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

// StorageConfig escolhe o armazenamento: "postgres" ou "memory"
type StorageConfig struct {
	Driver      string
	AutoMigrate bool
}

// PostgresConfig contém as configurações para conexão com o PostgreSQL
type PostgresConfig struct {
	URL             string
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int32
	MinConnections  int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// JWTConfig contém as configurações dos tokens de acesso
type JWTConfig struct {
	SecretKey         string
	Issuer            string
	AccessExpiration  time.Duration
	RefreshExpiration time.Duration
}

// RedisConfig contém as configurações do Redis. Addr vazio desativa a
// proteção por Idempotency-Key.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

// LoggerConfig contém as configurações de log
type LoggerConfig struct {
	Level       string
	ServiceName string
}

// TLSConfig aponta para o certificado do servidor em formato PFX.
// PFXPath vazio mantém o servidor em HTTP puro.
type TLSConfig struct {
	PFXPath     string
	PFXPassword string
}

// BootstrapConfig descreve o desenvolvedor criado na subida quando ainda
// não existe. Username vazio desativa a criação.
type BootstrapConfig struct {
	Username string
	Password string
	IDNumber string
}

// Load carrega o arquivo .env, se existir, e lê as variáveis de ambiente
func Load() (*Config, error) {
	// o .env é opcional; em produção as variáveis vêm do ambiente
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Environment:     getEnv("APP_ENV", "development"),
			BasePath:        getEnv("API_BASE_PATH", "/api/v1"),
			AllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", "postgres"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		},
		Postgres: LoadPostgres(),
		JWT: JWTConfig{
			SecretKey:         os.Getenv("JWT_SECRET_KEY"),
			Issuer:            getEnv("JWT_ISSUER", "erp-estoque-api"),
			AccessExpiration:  getEnvDuration("JWT_ACCESS_EXPIRATION", 24*time.Hour),
			RefreshExpiration: getEnvDuration("JWT_REFRESH_EXPIRATION", 7*24*time.Hour),
		},
		Redis: RedisConfig{
			Addr:           os.Getenv("REDIS_ADDR"),
			Password:       os.Getenv("REDIS_PASSWORD"),
			DB:             getEnvInt("REDIS_DB", 0),
			IdempotencyTTL: getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			ServiceName: getEnv("SERVICE_NAME", "erp-estoque"),
		},
		TLS: TLSConfig{
			PFXPath:     os.Getenv("TLS_PFX_PATH"),
			PFXPassword: os.Getenv("TLS_PFX_PASSWORD"),
		},
		Bootstrap: BootstrapConfig{
			Username: os.Getenv("BOOTSTRAP_DEVELOPER_USERNAME"),
			Password: os.Getenv("BOOTSTRAP_DEVELOPER_PASSWORD"),
			IDNumber: getEnv("BOOTSTRAP_DEVELOPER_ID_NUMBER", "0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadPostgres lê apenas a configuração do banco. Usado por ferramentas que
// não sobem a API, como o utilitário de migração.
func LoadPostgres() PostgresConfig {
	return PostgresConfig{
		URL:             os.Getenv("DATABASE_URL"),
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", "postgres"),
		Database:        getEnv("DB_NAME", "erp_estoque"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConnections:  int32(getEnvInt("DB_MAX_CONNECTIONS", 10)),
		MinConnections:  int32(getEnvInt("DB_MIN_CONNECTIONS", 1)),
		MaxConnLifetime: getEnvDuration("DB_MAX_LIFETIME", time.Hour),
		MaxConnIdleTime: getEnvDuration("DB_MAX_IDLE_TIME", 30*time.Minute),
	}
}

// Validate verifica combinações obrigatórias
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY não configurada")
	}
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("STORAGE_DRIVER inválido: %q", c.Storage.Driver)
	}
	return nil
}

// ConnectionString retorna a string de conexão para o PostgreSQL
func (c PostgresConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// IsProduction indica ambiente de produção
func (c ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvDuration aceita durações do Go ("90s", "2h") ou segundos inteiros
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
