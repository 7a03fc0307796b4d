package frame

import (
	"errors"
	"io"

	"github.com/bft-labs/satelink/internal/domain"
	"github.com/bft-labs/satelink/internal/ports"
	"github.com/bft-labs/satelink/pkg/log"
)

// Framing bytes.
const (
	Sync   byte = 0xFE
	Escape byte = 0xF0
	End    byte = 0x0D
)

var (
	ErrChecksum   = errors.New("frame: checksum mismatch")
	ErrShortFrame = errors.New("frame: frame too short")
)

// Codec holds framing options shared by the encoder and decoders.
// The zero value encodes and decodes frames without checksums.
type Codec struct {
	// Checksum appends and verifies the 16-bit panel checksum.
	Checksum bool
	// Logger receives desync warnings. Nil discards them.
	Logger ports.Logger
}

// Encode returns the wire frame for m without a checksum.
func Encode(m domain.Message) []byte {
	return Codec{}.Encode(m)
}

// Encode returns the wire frame for m.
func (c Codec) Encode(m domain.Message) []byte {
	body := m.Bytes()
	if c.Checksum {
		sum := Checksum(body)
		body = append(body, byte(sum>>8), byte(sum))
	}

	out := make([]byte, 0, len(body)+len(body)/8+4)
	out = append(out, Sync, Sync)
	for _, b := range body {
		out = append(out, b)
		if b == Sync {
			out = append(out, Escape)
		}
	}
	return append(out, Sync, End)
}

// NewDecoder returns a Decoder using the codec's options.
func (c Codec) NewDecoder() *Decoder {
	logger := c.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Decoder{checksum: c.Checksum, logger: logger}
}

// Decode reads one checksum-less message from r, see Decoder.ReadMessage.
func Decode(r io.ByteReader) (domain.Message, error) {
	return Codec{}.NewDecoder().ReadMessage(r)
}

// Decoder reassembles messages from a byte stream.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	checksum bool
	logger   ports.Logger

	buf       []byte
	syncBytes int
	inFrame   bool
	desyncs   int
}

// Feed advances the state machine by one byte. It returns a message and true
// when b completes a valid frame.
func (d *Decoder) Feed(b byte) (domain.Message, bool) {
	if b == Sync {
		if d.inFrame && d.syncBytes > 0 {
			// FE FE inside a frame: a new frame starts here.
			d.discard("frame sync inside frame", b)
		}
		d.syncBytes++
		return domain.Message{}, false
	}

	defer func() { d.syncBytes = 0 }()

	switch {
	case d.inFrame && d.syncBytes == 0:
		d.buf = append(d.buf, b)
	case d.inFrame:
		switch b {
		case Escape:
			d.buf = append(d.buf, Sync)
		case End:
			return d.complete()
		default:
			d.discard("invalid byte after frame sync", b)
		}
	case d.syncBytes >= 2:
		d.inFrame = true
		d.buf = append(d.buf[:0], b)
	}
	// Outside a frame everything up to the next FE FE is dropped.
	return domain.Message{}, false
}

// complete finishes the current frame and resets for the next one.
func (d *Decoder) complete() (domain.Message, bool) {
	body := d.buf
	d.inFrame = false
	d.buf = d.buf[:0]

	if d.checksum {
		if len(body) < 3 {
			d.desync("frame too short for checksum", ErrShortFrame, len(body))
			return domain.Message{}, false
		}
		n := len(body) - 2
		want := uint16(body[n])<<8 | uint16(body[n+1])
		if got := Checksum(body[:n]); got != want {
			d.desync("frame checksum mismatch", ErrChecksum, len(body))
			return domain.Message{}, false
		}
		body = body[:n]
	}

	m, ok := domain.MessageFromBytes(body)
	return m, ok
}

func (d *Decoder) discard(reason string, b byte) {
	d.desyncs++
	d.logger.Warn("discarding frame input: "+reason,
		ports.Byte("byte", b),
		ports.Int("discarded", len(d.buf)),
	)
	d.inFrame = false
	d.buf = d.buf[:0]
}

func (d *Decoder) desync(reason string, err error, size int) {
	d.desyncs++
	d.logger.Warn("discarding frame: "+reason,
		ports.Err(err),
		ports.Int("size", size),
	)
}

// Desyncs returns how many partial or invalid frames were discarded.
func (d *Decoder) Desyncs() int {
	return d.desyncs
}

// ReadMessage feeds bytes from r until a frame completes. Desyncs are
// recovered internally. Any read error, including io.EOF, is returned as is
// and leaves the partial frame in place, so use a new Decoder per stream.
func (d *Decoder) ReadMessage(r io.ByteReader) (domain.Message, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return domain.Message{}, err
		}
		if m, ok := d.Feed(b); ok {
			return m, nil
		}
	}
}
