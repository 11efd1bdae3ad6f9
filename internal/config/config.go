package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Starknet StarknetConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret string
	// CollateralMultiple is the over-collateralization requirement: the
	// available balance must cover this multiple of the action amount.
	CollateralMultiple float64
	PageSize           int
	PriceTTLMinutes    int
	FeedRefreshSeconds int
}

// StarknetConfig holds Starknet network and contract settings
type StarknetConfig struct {
	Network         string
	RPCURL          string
	ProtocolAddress string
	StrkAddress     string
	EthAddress      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "peerlend"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			JWTSecret:          getEnv("JWT_SECRET", ""),
			CollateralMultiple: getEnvFloat("COLLATERAL_MULTIPLE", 2.0),
			PageSize:           getEnvInt("PAGE_SIZE", 5),
			PriceTTLMinutes:    getEnvInt("PRICE_TTL_MINUTES", 60),
			FeedRefreshSeconds: getEnvInt("FEED_REFRESH_SECONDS", 30),
		},
		Starknet: StarknetConfig{
			Network:         getEnv("STARKNET_NETWORK", "sepolia"),
			RPCURL:          getEnv("STARKNET_RPC_URL", ""),
			ProtocolAddress: getEnv("PROTOCOL_ADDRESS", ""),
			StrkAddress:     getEnv("STRK_ADDRESS", "0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d"),
			EthAddress:      getEnv("ETH_ADDRESS", "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7"),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if config.Starknet.ProtocolAddress == "" {
		return nil, fmt.Errorf("PROTOCOL_ADDRESS is required")
	}
	if config.App.CollateralMultiple <= 0 {
		return nil, fmt.Errorf("COLLATERAL_MULTIPLE must be positive")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// TokenAddresses returns the symbol -> address table used for display.
func (c *Config) TokenAddresses() map[string]string {
	return map[string]string{
		"STRK": c.Starknet.StrkAddress,
		"ETH":  c.Starknet.EthAddress,
	}
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
