package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppName  string
	Env      string // DEV (local; default), TEST, QA, PROD
	Debug    bool
	TestMode bool
	Build    string

	Origin struct {
		BaseURL string
		Timeout time.Duration
	}

	Sync struct {
		// PollInterval is how often the reconciliation poll re-fetches composed
		// views regardless of broadcast delivery.
		PollInterval time.Duration
	}

	RollbarToken string
}

// NewConfig loads configuration from defaults, an optional .env.<env> file and
// ENV-prefixed environment variables (eg. DEV_ORIGINBASEURL).
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Darasa")
	conf.SetDefault("build", "dev")
	conf.SetDefault("originBaseURL", "http://localhost:8000/api")
	conf.SetDefault("originTimeout", 15*time.Second)
	conf.SetDefault("pollInterval", 30*time.Second)
	conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV")
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	c := &Config{
		AppName:      conf.GetString("appName"),
		Env:          env,
		Debug:        conf.GetBool("debug"),
		TestMode:     testMode,
		Build:        conf.GetString("build"),
		RollbarToken: conf.GetString("rollbarToken"),
	}
	c.Origin.BaseURL = conf.GetString("originBaseURL")
	c.Origin.Timeout = conf.GetDuration("originTimeout")
	c.Sync.PollInterval = conf.GetDuration("pollInterval")
	return c
}
