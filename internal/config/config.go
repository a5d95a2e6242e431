// Package config loads client configuration from an optional eventapp.yaml
// and EVENTAPP_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the read-only view the rest of the app consumes.
type Config interface {
	GetAppName() string
	GetBaseURL() string
	GetDataDir() string
	GetRequestTimeout() time.Duration
	GetCredentialsPassphrase() string
}

const (
	appNameKey    = "app_name"
	baseURLKey    = "base_url"
	dataDirKey    = "data_dir"
	timeoutKey    = "request_timeout"
	passphraseKey = "credentials_passphrase"
)

// Init wires viper to the config file and environment. If configFile is
// empty, eventapp.yaml is searched in the working directory and
// ~/.config/eventapp. A missing file is not an error; env vars and
// defaults still apply.
func Init(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("eventapp")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "eventapp"))
		}
	}

	// Environment variable support: EVENTAPP_BASE_URL overrides base_url.
	viper.SetEnvPrefix("EVENTAPP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	setDefaults()

	_ = viper.ReadInConfig()
}

func setDefaults() {
	viper.SetDefault(appNameKey, "Event Access")
	viper.SetDefault(baseURLKey, "http://localhost:1337")
	viper.SetDefault(dataDirKey, defaultDataDir())
	// Zero keeps the transport default, matching the source app.
	viper.SetDefault(timeoutKey, time.Duration(0))
	viper.SetDefault(passphraseKey, "")
}

// defaultDataDir is ~/.config/eventapp, falling back to a relative
// directory when the home directory cannot be resolved.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(home, ".config", "eventapp")
}

type viperConfig struct{}

var _ Config = viperConfig{}

// New returns a Config backed by the viper state prepared by Init.
func New() Config {
	return viperConfig{}
}

func (viperConfig) GetAppName() string {
	return viper.GetString(appNameKey)
}

func (viperConfig) GetBaseURL() string {
	return strings.TrimRight(viper.GetString(baseURLKey), "/")
}

func (viperConfig) GetDataDir() string {
	return viper.GetString(dataDirKey)
}

func (viperConfig) GetRequestTimeout() time.Duration {
	return viper.GetDuration(timeoutKey)
}

func (viperConfig) GetCredentialsPassphrase() string {
	return viper.GetString(passphraseKey)
}
