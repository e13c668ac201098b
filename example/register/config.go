package main

import (
	"github.com/spf13/viper"
)

type Config struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	ModelValidator bool   `mapstructure:"model_validator"`
	LogFile        string `mapstructure:"log_file"`
	AuditFile      string `mapstructure:"audit_file"`
	LogLevel       string `mapstructure:"log_level"`
}

func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("log_file", "register.log")
	v.SetDefault("log_level", "info")
	v.SetEnvPrefix("FORMSTATE")
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, err
	}
	return &conf, nil
}
