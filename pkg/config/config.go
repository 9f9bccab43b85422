// Package config loads the updater configuration from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config for one run of the updater. Fields left empty are filled in from the
// SD card or from defaults.
type Config struct {
	// Root is where the SD card is mounted.
	Root string `yaml:"root" env:"AIOU_ROOT" env-default:"." env-description:"SD card mount point"`
	// CFW forces the custom firmware kind instead of detecting it.
	CFW string `yaml:"cfw" env:"AIOU_CFW" env-description:"CFW override (ams, rnx, sxos)"`
	// Locale selects the UI strings.
	Locale string `yaml:"locale" env:"AIOU_LOCALE" env-default:"en-US" env-description:"UI locale"`
	// Model and Applet describe the console when not running on it.
	Model  string `yaml:"model" env:"AIOU_MODEL" env-default:"icosa" env-description:"console product model codename"`
	Applet string `yaml:"applet" env:"AIOU_APPLET" env-default:"application" env-description:"applet type the updater runs as"`
	// StatePath is where queued console requests are written.
	StatePath string `yaml:"state" env:"AIOU_STATE" env-description:"console request queue file"`
	// Forwarder is the forwarder to install with application updates,
	// relative to the SD root.
	Forwarder string `yaml:"forwarder" env:"AIOU_FORWARDER" env-default:"config/aio-switch-updater/romfs/aiosu-forwarder.nro" env-description:"forwarder source"`
	UserAgent string `yaml:"user_agent" env:"AIOU_USER_AGENT" env-default:"aiou" env-description:"HTTP User-Agent"`
	// Timeout bounds a whole download.
	Timeout time.Duration `yaml:"timeout" env:"AIOU_TIMEOUT" env-default:"30m" env-description:"download timeout"`
}

// DefaultPath is where the configuration file is looked up by default.
func DefaultPath() string {
	return path.Join(xdg.ConfigHome, "aiou", "config.yaml")
}

func defaultStatePath() string {
	return path.Join(xdg.DataHome, "aiou", "console.json")
}

// Load reads the configuration at p, or DefaultPath if p is empty. A missing
// file is only an error if p was given explicitly. Environment variables
// override the file.
func Load(p string) (*Config, error) {
	explicit := p != ""
	if !explicit {
		p = DefaultPath()
	}
	var cfg Config
	_, err := os.Stat(p)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("could not read config %s: %w", p, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("could not read config %s: %w", p, err)
	}
	if cfg.StatePath == "" {
		cfg.StatePath = defaultStatePath()
	}
	return &cfg, nil
}

// Usage describes the supported environment variables.
func Usage() (string, error) {
	var cfg Config
	return cleanenv.GetDescription(&cfg, nil)
}
