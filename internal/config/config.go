package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const appName = "decklearn"

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Session   SessionConfig   `mapstructure:"session"`
}

type DatabaseConfig struct {
	Driver          string            `mapstructure:"driver" validate:"oneof=sqlite mysql"`
	Path            string            `mapstructure:"path" validate:"required_if=Driver sqlite"`
	Host            string            `mapstructure:"host" validate:"required_if=Driver mysql"`
	Port            int               `mapstructure:"port" validate:"gte=0,lte=65535"`
	Database        string            `mapstructure:"database" validate:"required_if=Driver mysql"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration     `mapstructure:"conn_max_lifetime"`
	ConnectAttempts uint              `mapstructure:"connect_attempts" validate:"gte=1"`
}

// SchedulerConfig tunes the FSRS model used to reschedule cards.
type SchedulerConfig struct {
	DesiredRetention float64         `mapstructure:"desired_retention" validate:"gt=0,lte=1"`
	MaximumInterval  int             `mapstructure:"maximum_interval" validate:"gte=1"`
	LearningSteps    []time.Duration `mapstructure:"learning_steps" validate:"ascending,dive,gt=0"`
	RelearningSteps  []time.Duration `mapstructure:"relearning_steps" validate:"ascending,dive,gt=0"`
	EnableFuzz       bool            `mapstructure:"enable_fuzz"`
}

type SessionConfig struct {
	Mode  string `mapstructure:"mode" validate:"oneof=fsrs manual"`
	Band  string `mapstructure:"band" validate:"oneof='Very Hard' Hard Medium Easy Any"`
	Limit int    `mapstructure:"limit" validate:"gte=1"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(appName)
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

// DefaultDatabasePath is the sqlite file used when no path is configured.
func DefaultDatabasePath() string {
	return filepath.Join(xdg.DataHome, appName, appName+".db")
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.connect_attempts", 3)
	v.SetDefault("scheduler.desired_retention", 0.9)
	v.SetDefault("scheduler.maximum_interval", 36500)
	v.SetDefault("scheduler.learning_steps", []time.Duration{time.Minute, 10 * time.Minute})
	v.SetDefault("scheduler.relearning_steps", []time.Duration{10 * time.Minute})
	v.SetDefault("scheduler.enable_fuzz", false)
	v.SetDefault("session.mode", "fsrs")
	v.SetDefault("session.band", "Any")
	v.SetDefault("session.limit", 20)

	for key, env := range map[string]string{
		"database.password": "DB_PASSWORD",
		"database.driver":   "DECKLEARN_DB_DRIVER",
		"database.path":     "DECKLEARN_DB_PATH",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
