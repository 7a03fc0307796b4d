package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (SATELINK_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("host", os.Getenv("SATELINK_HOST"), &cfg.Host)
	s.setString("serial-port", os.Getenv("SATELINK_SERIAL_PORT"), &cfg.SerialPort)
	s.setString("parity", os.Getenv("SATELINK_PARITY"), &cfg.Parity)
	s.setString("user-code", os.Getenv("SATELINK_USER_CODE"), &cfg.UserCode)
	s.setString("log-level", os.Getenv("SATELINK_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("port", os.Getenv("SATELINK_PORT"), &cfg.Port); err != nil {
		return err
	}
	if err := s.setIntFromString("baud-rate", os.Getenv("SATELINK_BAUD_RATE"), &cfg.BaudRate); err != nil {
		return err
	}
	if err := s.setIntFromString("stop-bits", os.Getenv("SATELINK_STOP_BITS"), &cfg.StopBits); err != nil {
		return err
	}

	if err := s.setDuration("timeout", os.Getenv("SATELINK_TIMEOUT"), &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setDuration("refresh", os.Getenv("SATELINK_REFRESH"), &cfg.Refresh); err != nil {
		return err
	}

	s.setBoolFromString("checksum", os.Getenv("SATELINK_CHECKSUM"), &cfg.Checksum)
	s.setStringsFromString("states", os.Getenv("SATELINK_STATES"), &cfg.States)

	return nil
}
