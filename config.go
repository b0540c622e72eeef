package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// envPrefix namespaces environment overrides, e.g. CAREER_COUNTDOWN_ADDR
const envPrefix = "CAREER_COUNTDOWN"

// WindowConfig sizes the embedded browser window
type WindowConfig struct {
	Title  string `yaml:"title" mapstructure:"title"`
	Width  int    `yaml:"width" mapstructure:"width"`
	Height int    `yaml:"height" mapstructure:"height"`
}

// Config holds application settings read from config.yaml and the environment.
// Profiles themselves live in the separate profiles file.
type Config struct {
	ProfilesFile    string        `yaml:"profiles_file" mapstructure:"profiles_file"`
	DefaultProfile  string        `yaml:"default_profile,omitempty" mapstructure:"default_profile"`
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval"`
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	LogLevel        string        `yaml:"log_level" mapstructure:"log_level"`
	Window          WindowConfig  `yaml:"window" mapstructure:"window"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		ProfilesFile:    "profiles.json",
		RefreshInterval: DefaultRefreshInterval,
		Addr:            "localhost:0",
		LogLevel:        "info",
		Window: WindowConfig{
			Title:  "Career Countdown",
			Width:  432,
			Height: 233,
		},
	}
}

// LoadConfig reads filename, then applies a .env file and CAREER_COUNTDOWN_*
// environment variables on top. A missing config file is not an error.
func LoadConfig(filename string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warning("config", "could not read .env", map[string]interface{}{"error": err.Error()})
	}

	v := viper.New()
	setConfigDefaults(v, DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filename != "" {
		v.SetConfigFile(filename)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("error loading config %s: %w", filename, err)
			}
			logger.Debug("config", "config file not found, using defaults", map[string]interface{}{"file": filename})
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = DefaultRefreshInterval
	}
	return &config, nil
}

// setConfigDefaults registers every key so environment overrides apply to all of them
func setConfigDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("profiles_file", d.ProfilesFile)
	v.SetDefault("default_profile", d.DefaultProfile)
	v.SetDefault("refresh_interval", d.RefreshInterval)
	v.SetDefault("addr", d.Addr)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
}

// SaveConfig writes config to filename as YAML with an explanatory header
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	header := []byte(`# Career Countdown Configuration
# Generated by "careercountdown config init" - feel free to edit manually
#
#   profiles_file:    JSON file holding the named profiles
#   default_profile:  profile shown at start-up (default: "default" or first name)
#   refresh_interval: how often figures are recomputed (e.g. 1s)
#   addr:             web server address, use :0 or localhost:0 for a free port
#   log_level:        debug, info, warn or error
#
# Every key can be overridden from the environment, e.g.
#   CAREER_COUNTDOWN_PROFILES_FILE=~/profiles.json
#   CAREER_COUNTDOWN_WINDOW_WIDTH=600

`)
	content := append(header, data...)
	return os.WriteFile(filename, content, 0644)
}
