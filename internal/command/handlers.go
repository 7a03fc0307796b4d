package command

import (
	"fmt"

	"github.com/bft-labs/satelink/internal/domain"
	"github.com/bft-labs/satelink/internal/ports"
)

// versionPayloadLen is type, 11 version characters, language and flash flag.
const versionPayloadLen = 14

// VersionHandler decodes the identification response.
type VersionHandler struct {
	pub    ports.EventPublisher
	logger ports.Logger
}

// HandleResponse publishes an IntegraVersionEvent.
func (h *VersionHandler) HandleResponse(resp domain.Message) error {
	if err := expectCommand(resp, CodeIntegraVersion); err != nil {
		return err
	}
	if resp.PayloadLen() < versionPayloadLen {
		return fmt.Errorf("%w: identification payload is %d bytes, want %d",
			domain.ErrMalformedResponse, resp.PayloadLen(), versionPayloadLen)
	}
	p := resp.Payload()
	version, err := formatVersion(p[1:12])
	if err != nil {
		return err
	}

	e := domain.IntegraVersionEvent{
		Type:            p[0],
		Version:         version,
		Language:        p[12],
		SettingsInFlash: p[13] == 0xFF,
	}
	h.logger.Debug("panel identified",
		ports.String("type", e.IntegraType().String()),
		ports.String("version", e.Version),
	)
	h.pub.Publish(e)
	return nil
}

// formatVersion renders "ABBYYYYMMDD" as "A.BB YYYY-MM-DD".
func formatVersion(raw []byte) (string, error) {
	for _, c := range raw {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%w: version %q is not numeric", domain.ErrMalformedResponse, raw)
		}
	}
	s := string(raw)
	return fmt.Sprintf("%s.%s %s-%s-%s", s[0:1], s[1:3], s[3:7], s[7:9], s[9:11]), nil
}

// NewStatesHandler decodes the changed-states mask.
type NewStatesHandler struct {
	pub    ports.EventPublisher
	logger ports.Logger
}

// HandleResponse publishes a NewStatesEvent.
func (h *NewStatesHandler) HandleResponse(resp domain.Message) error {
	if err := expectCommand(resp, CodeNewStates); err != nil {
		return err
	}
	if resp.PayloadLen() == 0 {
		return fmt.Errorf("%w: empty new states mask", domain.ErrMalformedResponse)
	}
	e := domain.NewNewStatesEvent(domain.Bits(resp.Payload()))
	h.logger.Debug("new states", ports.Any("states", e.States()))
	h.pub.Publish(e)
	return nil
}

// StateHandler decodes a state snapshot for one state type.
type StateHandler struct {
	stateType domain.StateType
	pub       ports.EventPublisher
	logger    ports.Logger
}

// StateType returns the state kind handled.
func (h *StateHandler) StateType() domain.StateType {
	return h.stateType
}

// HandleResponse publishes an IntegraStateEvent.
func (h *StateHandler) HandleResponse(resp domain.Message) error {
	if err := expectCommand(resp, h.stateType.Code); err != nil {
		return err
	}
	if resp.PayloadLen() == 0 {
		return fmt.Errorf("%w: empty %s snapshot", domain.ErrMalformedResponse, h.stateType)
	}
	e := domain.NewIntegraStateEvent(h.stateType, domain.Bits(resp.Payload()))
	h.logger.Debug("state snapshot",
		ports.String("state", h.stateType.String()),
		ports.Int("set", e.StatesSet()),
	)
	h.pub.Publish(e)
	return nil
}

// ControlHandler handles the answer to a control command. The panel replies
// with either a 0xEF result frame or an echo of the control code.
type ControlHandler struct {
	control domain.ControlType
	pub     ports.EventPublisher
	logger  ports.Logger
}

// Control returns the control command handled.
func (h *ControlHandler) Control() domain.ControlType {
	return h.control
}

// HandleResponse publishes a ControlResultEvent and, when the panel accepted
// the command, a NewStatesEvent flagging the state to refresh.
func (h *ControlHandler) HandleResponse(resp domain.Message) error {
	var result byte
	switch resp.Command() {
	case CodeResult:
		if resp.PayloadLen() == 0 {
			return fmt.Errorf("%w: empty result for %s", domain.ErrMalformedResponse, h.control)
		}
		result = resp.PayloadByte(0)
	case h.control.Code:
		result = domain.ResultOK
	default:
		return fmt.Errorf("%w: response %02X to %s", domain.ErrMalformedResponse, resp.Command(), h.control)
	}

	e := domain.ControlResultEvent{Control: h.control, Result: result}
	if e.OK() {
		h.pub.Publish(domain.NewNewStatesEvent(domain.BitsOf(0, int(h.control.Refresh.Code))))
	} else {
		h.logger.Warn("control command rejected",
			ports.String("control", h.control.String()),
			ports.Byte("result", result),
			ports.String("reason", domain.ResultText(result)),
		)
	}
	h.pub.Publish(e)
	return nil
}

func expectCommand(resp domain.Message, code byte) error {
	switch resp.Command() {
	case code:
		return nil
	case CodeResult:
		var result byte = 0xFF
		if resp.PayloadLen() > 0 {
			result = resp.PayloadByte(0)
		}
		return fmt.Errorf("%w: panel answered %02X with result %02X (%s)",
			domain.ErrMalformedResponse, code, result, domain.ResultText(result))
	default:
		return fmt.Errorf("%w: response %02X to request %02X", domain.ErrMalformedResponse, resp.Command(), code)
	}
}
