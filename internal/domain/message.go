package domain

import (
	"bytes"
	"fmt"
)

// Message is one logical protocol message: a command code and its payload.
// The zero value is a message with command 0x00 and no payload.
type Message struct {
	command byte
	payload []byte
}

// NewMessage builds a Message. The payload is copied.
func NewMessage(command byte, payload []byte) Message {
	var p []byte
	if len(payload) > 0 {
		p = append([]byte(nil), payload...)
	}
	return Message{command: command, payload: p}
}

// MessageFromBytes splits raw frame content into command and payload.
// It returns false for empty input.
func MessageFromBytes(b []byte) (Message, bool) {
	if len(b) == 0 {
		return Message{}, false
	}
	return NewMessage(b[0], b[1:]), true
}

// Command returns the command code.
func (m Message) Command() byte {
	return m.command
}

// Payload returns a copy of the payload.
func (m Message) Payload() []byte {
	if len(m.payload) == 0 {
		return nil
	}
	return append([]byte(nil), m.payload...)
}

// PayloadLen returns the payload length without copying.
func (m Message) PayloadLen() int {
	return len(m.payload)
}

// PayloadByte returns the payload byte at i. It panics if i is out of range.
func (m Message) PayloadByte(i int) byte {
	return m.payload[i]
}

// Bytes returns command followed by payload.
func (m Message) Bytes() []byte {
	out := make([]byte, 0, 1+len(m.payload))
	out = append(out, m.command)
	return append(out, m.payload...)
}

// Equal reports structural equality of command and payload.
func (m Message) Equal(o Message) bool {
	return m.command == o.command && bytes.Equal(m.payload, o.payload)
}

// String renders the message for logs, e.g. "7E: []" or "17: [01 00 80]".
func (m Message) String() string {
	return fmt.Sprintf("%02X: [% X]", m.command, m.payload)
}
