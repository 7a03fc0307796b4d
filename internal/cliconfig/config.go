package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/satelink/pkg/satel"
)

// Config holds CLI configuration for satelink.
type Config struct {
	// Host selects an ETHM-1 module; SerialPort an INT-RS module.
	Host string
	Port int

	SerialPort string
	BaudRate   int
	Parity     string
	StopBits   int

	Timeout  time.Duration
	Refresh  time.Duration
	UserCode string
	Checksum bool
	States   []string
	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Port:     satel.DefaultTCPPort,
		BaudRate: 19200,
		Parity:   "none",
		StopBits: 1,
		Timeout:  satel.DefaultTimeout,
		Refresh:  10 * time.Second,
		Checksum: true,
		LogLevel: "info",
	}
}

// Validate checks the configuration for errors and normalizes the state list.
func (c *Config) Validate() error {
	if c.Host == "" && c.SerialPort == "" {
		return fmt.Errorf("host or serial-port is required")
	}
	if c.Host != "" && c.SerialPort != "" {
		return fmt.Errorf("host and serial-port are mutually exclusive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Refresh <= 0 {
		return fmt.Errorf("refresh interval must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	states, err := satel.ParseStateTypes(c.States)
	if err != nil {
		return err
	}
	c.States = c.States[:0]
	for _, st := range states {
		c.States = append(c.States, st.String())
	}

	return nil
}

// StateTypes parses the configured state names.
func (c Config) StateTypes() ([]satel.StateType, error) {
	return satel.ParseStateTypes(c.States)
}

// ModuleConfig returns the library configuration.
func (c Config) ModuleConfig() satel.Config {
	cfg := satel.DefaultConfig()
	cfg.Timeout = c.Timeout
	cfg.Checksum = c.Checksum
	return cfg
}

// Transport builds the configured panel transport.
func (c Config) Transport(logger satel.Logger) (satel.Transport, error) {
	if c.SerialPort != "" {
		return satel.NewSerialTransport(satel.SerialConfig{
			Port:     c.SerialPort,
			BaudRate: c.BaudRate,
			Parity:   c.Parity,
			StopBits: c.StopBits,
		}, logger)
	}
	return satel.NewTCPTransport(c.Host, c.Port, c.Timeout, logger)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a list if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

// setStringsFromString splits a comma separated list.
// Used for environment variables that come as strings.
func (s *configSetter) setStringsFromString(flag, value string, dst *[]string) {
	if strings.TrimSpace(value) == "" || s.changed[flag] {
		return
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
