package command

import (
	"fmt"

	"github.com/bft-labs/satelink/internal/domain"
)

const (
	userCodeLen       = 8
	partitionMaskLen  = 4
	minUserCodeDigits = 4
)

// IntegraVersionRequest asks the panel to identify itself.
func IntegraVersionRequest() domain.Message {
	return domain.NewMessage(CodeIntegraVersion, nil)
}

// NewStatesRequest asks which state kinds changed since the last query.
func NewStatesRequest() domain.Message {
	return domain.NewMessage(CodeNewStates, nil)
}

// StateRequest asks for a snapshot of one state kind.
func StateRequest(st domain.StateType) domain.Message {
	return domain.NewMessage(st.Code, nil)
}

// ControlRequest builds a control command for the given objects. Object bit
// n addresses object n+1. The mask is sized for the panel variant: four bytes
// for partitions, ObjectCapacity/8 bytes otherwise.
func ControlRequest(ct domain.ControlType, userCode string, objects domain.Bits, it domain.IntegraType) (domain.Message, error) {
	code, err := PackUserCode(userCode)
	if err != nil {
		return domain.Message{}, err
	}

	size := it.ObjectCapacity() / 8
	if ct.Object == domain.ObjectPartition {
		size = partitionMaskLen
	}
	idx := objects.Indices()
	if len(idx) == 0 {
		return domain.Message{}, fmt.Errorf("%w: no %s selected", domain.ErrObjectRange, ct.Object)
	}
	if last := idx[len(idx)-1]; last >= size*8 {
		return domain.Message{}, fmt.Errorf("%w: %s %d exceeds %d", domain.ErrObjectRange, ct.Object, last+1, size*8)
	}

	payload := make([]byte, 0, userCodeLen+size)
	payload = append(payload, code...)
	payload = append(payload, objects.Padded(size)[:size]...)
	return domain.NewMessage(ct.Code, payload), nil
}

// PackUserCode encodes a decimal user code as hex digits, two per byte,
// padded with 0xF to eight bytes.
func PackUserCode(userCode string) ([]byte, error) {
	if len(userCode) < minUserCodeDigits || len(userCode) > userCodeLen*2 {
		return nil, fmt.Errorf("%w: length %d", domain.ErrInvalidUserCode, len(userCode))
	}
	out := make([]byte, userCodeLen)
	for i := range out {
		out[i] = 0xFF
	}
	for i, c := range userCode {
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("%w: non-digit %q", domain.ErrInvalidUserCode, c)
		}
		d := byte(c - '0')
		if i%2 == 0 {
			out[i/2] = d<<4 | 0x0F
		} else {
			out[i/2] = out[i/2]&0xF0 | d
		}
	}
	return out, nil
}
