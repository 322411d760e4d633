package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"toolprobe/pkg/logging"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/toolprobe"
	configFileName = "servers.yaml"
)

// GetDefaultConfigPath returns ~/.config/toolprobe/servers.yaml.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

// LoadProcessConfig reads a servers.yaml file and layers it over
// DefaultProcessConfig. A missing file yields the defaults; entries in the file
// replace the default entry with the same identifier.
func LoadProcessConfig(path string) (ProcessConfig, error) {
	cfg := DefaultProcessConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No %s found at %s, using defaults", configFileName, path)
			return cfg, nil
		}
		return ProcessConfig{}, fmt.Errorf("error reading server config %s: %w", path, err)
	}

	var fileCfg ProcessConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return ProcessConfig{}, fmt.Errorf("error loading server config from %s: %w", path, err)
	}

	for id, conn := range fileCfg.Servers {
		if conn.Transport == "" {
			conn.Transport = TransportStreamableHTTP
		}
		cfg.Servers[id] = conn
	}

	logging.Info("ConfigLoader", "Loaded server configuration from %s (%d servers)", path, len(cfg.Servers))
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	logging.Debug("ConfigLoader", "Loaded environment defaults from %s", path)
	return nil
}

// EnvDefaults returns the default host and port for the minimal configuration,
// honouring CCXT_HOST and CCXT_PORT.
func EnvDefaults() (string, int, error) {
	host := DefaultHost
	if v := os.Getenv(EnvHost); v != "" {
		host = v
	}

	port := DefaultPort
	if v := os.Getenv(EnvPort); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return "", 0, newConfigurationError(EnvPort, v, "must be an integer")
		}
		port = p
	}
	return host, port, nil
}
