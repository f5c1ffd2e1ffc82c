package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	API     API
	Session Session
	Lists   Lists
	Log     Log
}

type API struct {
	BaseURL string
	Timeout time.Duration
}

type Session struct {
	TokenFile string
}

type Lists struct {
	SearchDebounce time.Duration
}

type Log struct {
	Level  string
	Pretty bool
}

func NewConfig() (*Config, error) {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Error reading .env file")
	}

	v := viper.New()
	v.SetEnvPrefix("ACE")
	v.AutomaticEnv()

	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("API_TIMEOUT_SECONDS", 15)
	v.SetDefault("TOKEN_FILE", defaultTokenFile())
	v.SetDefault("SEARCH_DEBOUNCE_MS", 500)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)

	var config Config

	config.API.BaseURL = v.GetString("API_BASE_URL")
	config.API.Timeout = time.Duration(v.GetInt("API_TIMEOUT_SECONDS")) * time.Second
	config.Session.TokenFile = v.GetString("TOKEN_FILE")
	config.Lists.SearchDebounce = time.Duration(v.GetInt("SEARCH_DEBOUNCE_MS")) * time.Millisecond
	config.Log.Level = v.GetString("LOG_LEVEL")
	config.Log.Pretty = v.GetBool("LOG_PRETTY")

	log.Debug().
		Str("base_url", config.API.BaseURL).
		Dur("timeout", config.API.Timeout).
		Str("token_file", config.Session.TokenFile).
		Msg("Config loaded")
	return &config, nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aceadmin-token"
	}
	return filepath.Join(home, ".aceadmin", "token")
}
