package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig holds the MySQL connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// JWTConfig holds the settings for verifying identity tokens issued by the
// auth provider.
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// SettlementConfig is the financial policy: monthly rent, per-person hourly
// rates and per-person deduction rates. Rates live here rather than in code
// so a family can tune them without a rebuild.
type SettlementConfig struct {
	MonthlyRent    int64              `mapstructure:"monthly_rent"`
	HourlyRates    map[string]int64   `mapstructure:"hourly_rates"`
	DeductionRates map[string]float64 `mapstructure:"deduction_rates"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// HourlyRate returns the configured hourly rate for person, 0 if unknown.
func (c *SettlementConfig) HourlyRate(person string) int64 {
	return c.HourlyRates[person]
}

// DeductionRate returns the configured deduction rate for person, 0 if
// unknown.
func (c *SettlementConfig) DeductionRate(person string) float64 {
	return c.DeductionRates[person]
}

// GlobalConfig is the loaded configuration instance.
var GlobalConfig *Config

// LoadConfig loads configuration with precedence:
// env vars > external config file > embedded defaults.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("čtení výchozí konfigurace selhalo: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("varování: konfigurační soubor %s nelze načíst: %v", configPath, err)
		}
	} else {
		external := viper.New()
		external.SetConfigName("config")
		external.SetConfigType("yaml")
		external.AddConfigPath(".")
		external.AddConfigPath("./config")
		external.AddConfigPath("/etc/workmm")
		if err := external.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(external.AllSettings()); err != nil {
				log.Printf("varování: sloučení externí konfigurace selhalo: %v", err)
			}
		}
	}

	v.SetEnvPrefix("WORKMM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsování konfigurace selhalo: %w", err)
	}

	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	GlobalConfig = &cfg
	return &cfg, nil
}

// GetConfig returns the loaded configuration, panicking when LoadConfig has
// not run yet.
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("konfigurace není inicializována, zavolejte nejdříve LoadConfig")
	}
	return GlobalConfig
}
