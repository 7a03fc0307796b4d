package command

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bft-labs/satelink/internal/domain"
	"github.com/bft-labs/satelink/internal/ports"
)

type capture struct {
	events []domain.Event
}

func (c *capture) Publish(e domain.Event) {
	c.events = append(c.events, e)
}

func identPayload(typ byte, version string, lang byte, flash byte) []byte {
	p := []byte{typ}
	p = append(p, version...)
	return append(p, lang, flash)
}

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry(&capture{}, nil)

	want := 2 + len(domain.StateTypes()) + len(domain.ControlTypes())
	if got := len(r.Codes()); got != want {
		t.Errorf("len(Codes()) = %d, want %d", got, want)
	}

	for _, code := range []byte{CodeIntegraVersion, CodeNewStates, 0x00, 0x17, 0x88, 0x91} {
		if _, ok := r.Lookup(code); !ok {
			t.Errorf("Lookup(%02X) missing", code)
		}
	}
	if _, ok := r.Lookup(0x60); ok {
		t.Error("Lookup(60) found a handler, want none")
	}

	h, _ := r.Lookup(domain.ZoneAlarm.Code)
	if sh, ok := h.(*StateHandler); !ok || sh.StateType() != domain.ZoneAlarm {
		t.Errorf("Lookup(%02X) = %T, want state handler for zone alarm", domain.ZoneAlarm.Code, h)
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	var called string
	r.Register(0x10, HandlerFunc(func(domain.Message) error { called = "first"; return nil }))
	r.Register(0x10, HandlerFunc(func(domain.Message) error { called = "second"; return nil }))

	h, ok := r.Lookup(0x10)
	if !ok {
		t.Fatal("Lookup(10) missing")
	}
	_ = h.HandleResponse(domain.NewMessage(0x10, nil))
	if called != "second" {
		t.Errorf("called = %q, want second", called)
	}
	if codes := r.Codes(); len(codes) != 1 {
		t.Errorf("Codes() = %v, want one entry", codes)
	}
}

func TestVersionHandler(t *testing.T) {
	tests := []struct {
		name      string
		resp      domain.Message
		wantErr   bool
		wantType  domain.IntegraType
		wantVer   string
		wantFlash bool
	}{
		{
			name:      "integra 128",
			resp:      domain.NewMessage(0x7E, identPayload(3, "10720080229", 1, 0xFF)),
			wantType:  domain.IntegraI128,
			wantVer:   "1.07 2008-02-29",
			wantFlash: true,
		},
		{
			name:     "integra 256 plus",
			resp:     domain.NewMessage(0x7E, identPayload(72, "11220150101", 0, 0x00)),
			wantType: domain.IntegraI256Plus,
			wantVer:  "1.12 2015-01-01",
		},
		{
			name:    "short payload",
			resp:    domain.NewMessage(0x7E, []byte{3, '1', '0'}),
			wantErr: true,
		},
		{
			name:    "non numeric version",
			resp:    domain.NewMessage(0x7E, identPayload(3, "1.07 2008-0", 1, 0xFF)),
			wantErr: true,
		},
		{
			name:    "wrong command",
			resp:    domain.NewMessage(0x7F, identPayload(3, "10720080229", 1, 0xFF)),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &capture{}
			r := NewDefaultRegistry(pub, nil)
			h, _ := r.Lookup(CodeIntegraVersion)

			err := h.HandleResponse(tt.resp)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrMalformedResponse) {
					t.Errorf("HandleResponse() error = %v, want ErrMalformedResponse", err)
				}
				if len(pub.events) != 0 {
					t.Errorf("published %d events on error, want 0", len(pub.events))
				}
				return
			}
			if err != nil {
				t.Fatalf("HandleResponse() error = %v", err)
			}
			if len(pub.events) != 1 {
				t.Fatalf("published %d events, want 1", len(pub.events))
			}
			e, ok := pub.events[0].(domain.IntegraVersionEvent)
			if !ok {
				t.Fatalf("event = %T, want IntegraVersionEvent", pub.events[0])
			}
			if e.IntegraType() != tt.wantType {
				t.Errorf("IntegraType() = %v, want %v", e.IntegraType(), tt.wantType)
			}
			if e.Version != tt.wantVer {
				t.Errorf("Version = %q, want %q", e.Version, tt.wantVer)
			}
			if e.SettingsInFlash != tt.wantFlash {
				t.Errorf("SettingsInFlash = %v, want %v", e.SettingsInFlash, tt.wantFlash)
			}
		})
	}
}

func TestNewStatesHandler(t *testing.T) {
	pub := &capture{}
	h := &NewStatesHandler{pub: pub, logger: noopLogger{}}

	// bits 0 (zone violation) and 0x17 (output state)
	mask := []byte{0x01, 0x00, 0x80, 0x00, 0x00}
	if err := h.HandleResponse(domain.NewMessage(0x7F, mask)); err != nil {
		t.Fatalf("HandleResponse() error = %v", err)
	}
	e := pub.events[0].(domain.NewStatesEvent)
	if !e.IsNew(domain.ZoneViolation.Code) || !e.IsNew(domain.OutputState.Code) {
		t.Errorf("IsNew false for flagged states, mask %v", e.States())
	}
	if e.IsNew(domain.ZoneTamper.Code) {
		t.Error("IsNew(zone tamper) = true, want false")
	}

	if err := h.HandleResponse(domain.NewMessage(0x7F, nil)); !errors.Is(err, domain.ErrMalformedResponse) {
		t.Errorf("empty mask error = %v, want ErrMalformedResponse", err)
	}
}

func TestStateHandler(t *testing.T) {
	pub := &capture{}
	h := &StateHandler{stateType: domain.OutputState, pub: pub, logger: noopLogger{}}

	payload := make([]byte, 16)
	payload[0] = 0x05 // outputs 1 and 3
	if err := h.HandleResponse(domain.NewMessage(0x17, payload)); err != nil {
		t.Fatalf("HandleResponse() error = %v", err)
	}
	e := pub.events[0].(domain.IntegraStateEvent)
	if e.StateType() != domain.OutputState {
		t.Errorf("StateType() = %v, want %v", e.StateType(), domain.OutputState)
	}
	if !e.IsSet(0) || e.IsSet(1) || !e.IsSet(2) {
		t.Errorf("bits = %v, want {1,3}", e.Bits())
	}
	if e.StatesSet() != 2 {
		t.Errorf("StatesSet() = %d, want 2", e.StatesSet())
	}

	err := h.HandleResponse(domain.NewMessage(CodeResult, []byte{0x08}))
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Errorf("result frame error = %v, want ErrMalformedResponse", err)
	}
	if len(pub.events) != 1 {
		t.Errorf("published %d events, want 1", len(pub.events))
	}
}

func TestControlHandler(t *testing.T) {
	tests := []struct {
		name        string
		resp        domain.Message
		wantErr     bool
		wantEvents  int
		wantOK      bool
		wantRefresh bool
	}{
		{"result ok", domain.NewMessage(0xEF, []byte{0x00}), false, 2, true, true},
		{"result accepted", domain.NewMessage(0xEF, []byte{0xFF}), false, 2, true, true},
		{"echo", domain.NewMessage(0x88, nil), false, 2, true, true},
		{"no access", domain.NewMessage(0xEF, []byte{0x02}), false, 1, false, false},
		{"empty result", domain.NewMessage(0xEF, nil), true, 0, false, false},
		{"unrelated", domain.NewMessage(0x17, nil), true, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &capture{}
			h := &ControlHandler{control: domain.OutputOn, pub: pub, logger: noopLogger{}}

			err := h.HandleResponse(tt.resp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("HandleResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(pub.events) != tt.wantEvents {
				t.Fatalf("published %d events, want %d", len(pub.events), tt.wantEvents)
			}
			if tt.wantEvents == 0 {
				return
			}

			var refreshed, gotOK bool
			for _, e := range pub.events {
				switch ev := e.(type) {
				case domain.NewStatesEvent:
					refreshed = ev.IsNew(domain.OutputState.Code)
				case domain.ControlResultEvent:
					gotOK = ev.OK()
					if ev.Control != domain.OutputOn {
						t.Errorf("Control = %v, want %v", ev.Control, domain.OutputOn)
					}
				}
			}
			if refreshed != tt.wantRefresh {
				t.Errorf("refresh flagged = %v, want %v", refreshed, tt.wantRefresh)
			}
			if gotOK != tt.wantOK {
				t.Errorf("OK() = %v, want %v", gotOK, tt.wantOK)
			}
		})
	}
}

func TestPackUserCode(t *testing.T) {
	tests := []struct {
		code    string
		want    []byte
		wantErr bool
	}{
		{"1234", []byte{0x12, 0x34, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, false},
		{"12345", []byte{0x12, 0x34, 0x5F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, false},
		{"0000111122223333", []byte{0x00, 0x00, 0x11, 0x11, 0x22, 0x22, 0x33, 0x33}, false},
		{"123", nil, true},
		{"12a4", nil, true},
		{"01234567890123456", nil, true},
	}
	for _, tt := range tests {
		got, err := PackUserCode(tt.code)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrInvalidUserCode) {
				t.Errorf("PackUserCode(%q) error = %v, want ErrInvalidUserCode", tt.code, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("PackUserCode(%q) error = %v", tt.code, err)
			continue
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("PackUserCode(%q) = % X, want % X", tt.code, got, tt.want)
		}
	}
}

func TestControlRequest(t *testing.T) {
	tests := []struct {
		name    string
		ct      domain.ControlType
		objects domain.Bits
		it      domain.IntegraType
		wantLen int
		wantErr error
	}{
		{"output on integra 128", domain.OutputOn, domain.BitsOf(0, 0, 2), domain.IntegraI128, 8 + 16, nil},
		{"output on integra 256", domain.OutputOn, domain.BitsOf(0, 200), domain.IntegraI256Plus, 8 + 32, nil},
		{"output beyond capacity", domain.OutputOn, domain.BitsOf(0, 200), domain.IntegraI128, 0, domain.ErrObjectRange},
		{"partition arm", domain.PartitionArmMode0, domain.BitsOf(0, 0), domain.IntegraI128, 8 + 4, nil},
		{"partition beyond mask", domain.PartitionDisarm, domain.BitsOf(0, 32), domain.IntegraI128, 0, domain.ErrObjectRange},
		{"no objects", domain.OutputOff, domain.NewBits(128), domain.IntegraI128, 0, domain.ErrObjectRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ControlRequest(tt.ct, "1234", tt.objects, tt.it)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ControlRequest() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ControlRequest() error = %v", err)
			}
			if m.Command() != tt.ct.Code {
				t.Errorf("Command() = %02X, want %02X", m.Command(), tt.ct.Code)
			}
			if m.PayloadLen() != tt.wantLen {
				t.Errorf("PayloadLen() = %d, want %d", m.PayloadLen(), tt.wantLen)
			}
			mask := domain.Bits(m.Payload()[8:])
			for _, n := range tt.objects.Indices() {
				if !mask.IsSet(n) {
					t.Errorf("object bit %d not set in % X", n, []byte(mask))
				}
			}
		})
	}
}

func TestRequests(t *testing.T) {
	if m := IntegraVersionRequest(); m.Command() != 0x7E || m.PayloadLen() != 0 {
		t.Errorf("IntegraVersionRequest() = %v", m)
	}
	if m := NewStatesRequest(); m.Command() != 0x7F || m.PayloadLen() != 0 {
		t.Errorf("NewStatesRequest() = %v", m)
	}
	if m := StateRequest(domain.DoorsOpened); m.Command() != 0x18 {
		t.Errorf("StateRequest(doors opened) = %v", m)
	}
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, fields ...ports.Field) {}
func (noopLogger) Info(msg string, fields ...ports.Field)  {}
func (noopLogger) Warn(msg string, fields ...ports.Field)  {}
func (noopLogger) Error(msg string, fields ...ports.Field) {}
