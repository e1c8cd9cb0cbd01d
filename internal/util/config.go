package util

import (
	"fmt"

	"github.com/spf13/viper"
)

// EngineConfig holds the pricing/risk knobs
type EngineConfig struct {
	MaxLookbackDays    int     `mapstructure:"max_lookback_days"`
	HistoryDays        int     `mapstructure:"history_days"`
	RiskFreeRateAnnual float64 `mapstructure:"risk_free_rate_annual"`
	// "union" or "intersection"; how return series with gaps are aligned
	Alignment string `mapstructure:"alignment"`
}

// ProviderConfig selects the price data source
type ProviderConfig struct {
	Kind   string `mapstructure:"kind"` // "yahoo" or "csv"
	CsvDir string `mapstructure:"csv_dir"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// Config holds all configuration
type Config struct {
	Engine   EngineConfig   `mapstructure:"engine"`
	Provider ProviderConfig `mapstructure:"provider"`
	Server   ServerConfig   `mapstructure:"server"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("portfoliorisk")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("PRISK")
	viper.AutomaticEnv()

	viper.SetDefault("engine.max_lookback_days", 10)
	viper.SetDefault("engine.history_days", 365)
	viper.SetDefault("engine.risk_free_rate_annual", 0.03)
	viper.SetDefault("engine.alignment", "union")
	viper.SetDefault("provider.kind", "yahoo")
	viper.SetDefault("server.port", 8080)

	if err := viper.ReadInConfig(); err != nil {
		// config file is optional; defaults + env cover everything
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
