package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Host       string   `toml:"host"`
	Port       int      `toml:"port"`
	SerialPort string   `toml:"serial_port"`
	BaudRate   int      `toml:"baud_rate"`
	Parity     string   `toml:"parity"`
	StopBits   int      `toml:"stop_bits"`
	Timeout    string   `toml:"timeout"`
	Refresh    string   `toml:"refresh"`
	UserCode   string   `toml:"user_code"`
	Checksum   *bool    `toml:"checksum"`
	States     []string `toml:"states"`
	LogLevel   string   `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.satelink/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".satelink", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("host", fc.Host, &cfg.Host)
	s.setString("serial-port", fc.SerialPort, &cfg.SerialPort)
	s.setString("parity", fc.Parity, &cfg.Parity)
	s.setString("user-code", fc.UserCode, &cfg.UserCode)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("port", fc.Port, &cfg.Port)
	s.setInt("baud-rate", fc.BaudRate, &cfg.BaudRate)
	s.setInt("stop-bits", fc.StopBits, &cfg.StopBits)

	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setDuration("refresh", fc.Refresh, &cfg.Refresh); err != nil {
		return err
	}

	s.setBool("checksum", fc.Checksum, &cfg.Checksum)
	s.setStrings("states", fc.States, &cfg.States)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
