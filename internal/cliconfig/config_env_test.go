package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"SATELINK_HOST":      "10.1.1.1",
				"SATELINK_PORT":      "7095",
				"SATELINK_TIMEOUT":   "2s",
				"SATELINK_USER_CODE": "4321",
				"SATELINK_STATES":    "zone:violation, output:state,",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Host:     "10.1.1.1",
				Port:     7095,
				Timeout:  2 * time.Second,
				UserCode: "4321",
				States:   []string{"zone:violation", "output:state"},
			},
			wantErr: false,
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"SATELINK_HOST":      "10.1.1.1",
				"SATELINK_LOG_LEVEL": "debug",
			},
			changed: map[string]bool{"host": true},
			initial: Config{
				Host: "192.168.1.1",
			},
			expected: Config{
				Host:     "192.168.1.1",
				LogLevel: "debug",
			},
			wantErr: false,
		},
		{
			name: "returns error for invalid duration",
			envVars: map[string]string{
				"SATELINK_REFRESH": "not-a-duration",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{},
			wantErr:  true,
		},
		{
			name: "returns error for invalid int",
			envVars: map[string]string{
				"SATELINK_BAUD_RATE": "fast",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{},
			wantErr:  true,
		},
		{
			name: "handles bool '1' as true",
			envVars: map[string]string{
				"SATELINK_CHECKSUM": "1",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Checksum: true,
			},
			wantErr: false,
		},
		{
			name: "handles bool 'false' as false",
			envVars: map[string]string{
				"SATELINK_CHECKSUM": "false",
			},
			changed: map[string]bool{},
			initial: Config{Checksum: true},
			expected: Config{
				Checksum: false,
			},
			wantErr: false,
		},
		{
			name: "handles serial fields",
			envVars: map[string]string{
				"SATELINK_SERIAL_PORT": "/dev/ttyS1",
				"SATELINK_BAUD_RATE":   "9600",
				"SATELINK_PARITY":      "odd",
				"SATELINK_STOP_BITS":   "2",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				SerialPort: "/dev/ttyS1",
				BaudRate:   9600,
				Parity:     "odd",
				StopBits:   2,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyEnvConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyEnvConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr {
				assertConfig(t, cfg, tt.expected)
			}
		})
	}
}
