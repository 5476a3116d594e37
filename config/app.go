package config

import (
	"sync"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName     string
	Port        string
	Env         string
	Debug       bool
	Currency    string
	PhoneRegion string
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() *Config {
	once.Do(func() {
		AppConfig = &Config{
			AppName:     GetEnv("APP_NAME", "repairshop"),
			Port:        GetEnv("PORT", "8080"),
			Env:         GetEnv("APP_ENV", "development"),
			Debug:       GetEnvBool("DEBUG", false),
			Currency:    GetEnv("CURRENCY", "PKR"),
			PhoneRegion: GetEnv("DEFAULT_PHONE_REGION", "PK"),
		}
	})
	return AppConfig
}
