package serial

import (
	"context"
	"errors"
	"testing"

	"go.bug.st/serial"
)

func TestConfig_Mode(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantBaud   int
		wantParity serial.Parity
		wantStop   serial.StopBits
		wantErr    bool
	}{
		{"defaults", Config{}, 19200, serial.NoParity, serial.OneStopBit, false},
		{"even two stop", Config{BaudRate: 9600, Parity: "even", StopBits: 2}, 9600, serial.EvenParity, serial.TwoStopBits, false},
		{"odd short form", Config{Parity: "O"}, 19200, serial.OddParity, serial.OneStopBit, false},
		{"bad parity", Config{Parity: "sometimes"}, 0, 0, 0, true},
		{"bad stop bits", Config{StopBits: 3}, 0, 0, 0, true},
		{"bad data bits", Config{DataBits: 9}, 0, 0, 0, true},
		{"negative baud", Config{BaudRate: -1}, 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := tt.cfg.Mode()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Mode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if mode.BaudRate != tt.wantBaud {
				t.Errorf("BaudRate = %d, want %d", mode.BaudRate, tt.wantBaud)
			}
			if mode.DataBits != 8 {
				t.Errorf("DataBits = %d, want 8", mode.DataBits)
			}
			if mode.Parity != tt.wantParity {
				t.Errorf("Parity = %v, want %v", mode.Parity, tt.wantParity)
			}
			if mode.StopBits != tt.wantStop {
				t.Errorf("StopBits = %v, want %v", mode.StopBits, tt.wantStop)
			}
		})
	}
}

func TestNew_RequiresPort(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Error("New() with empty port returned nil error")
	}
}

func TestConnect_OpenError(t *testing.T) {
	tr, err := New(Config{Port: "/dev/ttyNOPE"}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	boom := errors.New("no such device")
	var gotName string
	var gotMode *serial.Mode
	tr.open = func(name string, mode *serial.Mode) (serial.Port, error) {
		gotName, gotMode = name, mode
		return nil, boom
	}

	if _, err := tr.Connect(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Connect() error = %v, want %v", err, boom)
	}
	if gotName != "/dev/ttyNOPE" || gotMode.BaudRate != DefaultBaudRate {
		t.Errorf("open(%q, baud %d), want /dev/ttyNOPE at %d", gotName, gotMode.BaudRate, DefaultBaudRate)
	}
}

func TestConnect_CancelledContext(t *testing.T) {
	tr, _ := New(Config{Port: "/dev/ttyS0"}, nil)
	tr.open = func(string, *serial.Mode) (serial.Port, error) {
		t.Fatal("open called with cancelled context")
		return nil, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tr.Connect(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Connect() error = %v, want context.Canceled", err)
	}
}

func TestString(t *testing.T) {
	tr, _ := New(Config{Port: "/dev/ttyUSB0"}, nil)
	if got, want := tr.String(), "serial:///dev/ttyUSB0?baud=19200"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
