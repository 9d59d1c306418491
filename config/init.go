package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var c Config

func Init() {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("Host", "0.0.0.0")
	v.SetDefault("Port", "8080")
	v.SetDefault("Prefix", "api")
	v.SetDefault("Mode", string(ModeDebug))
	v.SetDefault("Log.level", "info")
	v.SetDefault("Log.max_size", 100)
	v.SetDefault("Log.max_backups", 3)
	v.SetDefault("Log.max_age", 28)
	v.SetDefault("Dashboard.active_status", "승인(진행중)")
	v.SetDefault("Dashboard.default_status", "제안")
	v.SetDefault("Dashboard.unassigned_label", "(미할당)")
	v.SetDefault("Dashboard.blank_status", "(blank)")

	// The config file is optional: defaults plus env overrides are enough to run.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		panic(err)
	}
	if err := envconfig.Process("AX", &c); err != nil {
		panic(err)
	}
	c.Prefix = strings.Trim(c.Prefix, "/")
}

func Get() *Config {
	return &c
}
