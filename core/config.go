package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		Build    string
		AppName  string

		SecretKey string

		Server   ServerConfig
		Database DatabaseConfig

		RollbarToken string
	}

	ServerConfig struct {
		Host               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
	}
)

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// NewConfig loads the app configuration from the environment with sane DEV defaults.
// A config/.env.<env> file is loaded first if it exists.
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Gespro")
	conf.SetDefault("build", "dev")
	conf.SetDefault("secretKey", "+w2ah*2cv0m5%ba-ms1$0s^0_q&6%)p7k#0j9x&=e^oyh$u=n(")
	conf.SetDefault("serverHost", "0.0.0.0:8000")
	conf.SetDefault("serverDebugHost", "0.0.0.0:6060")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("jwtExpirationDelta", time.Hour)
	conf.SetDefault("dbHost", "localhost")
	conf.SetDefault("dbPort", "3306")
	conf.SetDefault("dbName", "gespro")
	conf.SetDefault("dbUser", "gespro")
	conf.SetDefault("dbPassword", "")
	conf.SetDefault("dbAdminUser", "")
	conf.SetDefault("dbAdminPassword", "")
	conf.SetDefault("rollbarToken", "")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:     conf.GetBool("debug"),
		TestMode:  conf.GetBool("testMode"),
		Env:       env,
		Build:     conf.GetString("build"),
		AppName:   conf.GetString("appName"),
		SecretKey: conf.GetString("secretKey"),
		Server: ServerConfig{
			Host:               conf.GetString("serverHost"),
			DebugHost:          conf.GetString("serverDebugHost"),
			ShutdownTimeout:    conf.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			Host:          conf.GetString("dbHost"),
			Port:          conf.GetString("dbPort"),
			Name:          conf.GetString("dbName"),
			User:          conf.GetString("dbUser"),
			Password:      conf.GetString("dbPassword"),
			AdminUser:     conf.GetString("dbAdminUser"),
			AdminPassword: conf.GetString("dbAdminPassword"),
		},
		RollbarToken: conf.GetString("rollbarToken"),
	}
}
