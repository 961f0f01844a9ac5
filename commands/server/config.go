package server

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/ledger/errors"
)

// ConfigFile is the name of the configuration file under home.
const ConfigFile = "config.toml"

// Config holds the node settings read from config.toml.
type Config struct {
	// Bind is the address the ABCI server listens on.
	Bind string `toml:"bind"`
	// Debug returns call stacks in error logs of failed transactions.
	Debug bool `toml:"debug"`
	// DataDir holds the state, relative to home unless absolute.
	DataDir string `toml:"data_dir"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"log_level"`
	// LogFile, if set, receives the logs instead of stdout. It is
	// rotated when it grows over LogMaxSizeMB.
	LogFile      string `toml:"log_file"`
	LogMaxSizeMB int    `toml:"log_max_size_mb"`
	LogMaxFiles  int    `toml:"log_max_files"`
	// MetricsAddr, if set, serves prometheus metrics on /metrics.
	MetricsAddr string `toml:"metrics_addr"`
}

// DefaultConfig is used for every setting missing from the file.
func DefaultConfig() Config {
	return Config{
		Bind:         "tcp://localhost:26658",
		DataDir:      "data",
		LogLevel:     "info",
		LogMaxSizeMB: 100,
		LogMaxFiles:  5,
	}
}

// LoadConfig reads home/config.toml over the defaults. A missing file
// leaves the defaults in place.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig()
	path := filepath.Join(home, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &conf); err != nil {
			return conf, errors.Wrapf(errors.ErrInvalidInput, "load %s: %s", path, err)
		}
	}
	if !filepath.IsAbs(conf.DataDir) {
		conf.DataDir = filepath.Join(home, conf.DataDir)
	}
	return conf, nil
}

// WriteConfig stores conf as home/config.toml.
func WriteConfig(home string, conf Config) error {
	f, err := os.Create(filepath.Join(home, ConfigFile))
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(conf); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}
