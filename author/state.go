package author

import (
	"github.com/krxproject/krxd/config"
)

// conditionalFrame tracks one open when_start/when_not_start/
// when_device_start block: the condition it will carry and the base
// mappings collected inside it so far.
type conditionalFrame struct {
	condition config.Condition
	mappings  []config.BaseKeyMapping
}

// parserState is the scoped, single-compilation state the function
// table mutates: an open-device pointer and a conditional stack. Each
// call to Compile starts from a fresh, zero-valued parserState.
type parserState struct {
	devices          []config.DeviceConfig
	currentDevice    *config.DeviceConfig
	conditionalStack []conditionalFrame
	maxCallDepth     int
}

func newParserState(maxCallDepth int) *parserState {
	return &parserState{maxCallDepth: maxCallDepth}
}

func (s *parserState) deviceStart(pattern string) error {
	var id, err = config.NewDeviceIdentifier(pattern)
	if err != nil {
		return err
	}

	if s.currentDevice != nil {
		s.devices = append(s.devices, *s.currentDevice)
	}

	s.currentDevice = &config.DeviceConfig{Identifier: id}

	return nil
}

func (s *parserState) deviceEnd() error {
	if s.currentDevice == nil {
		return &StateError{Message: "device_end() called without matching device_start()"}
	}

	s.devices = append(s.devices, *s.currentDevice)
	s.currentDevice = nil

	return nil
}

// finish implicitly commits any still-open device block, as the
// original authoring surface does on device_start()/end-of-program.
func (s *parserState) finish() ([]config.DeviceConfig, error) {
	if len(s.conditionalStack) > 0 {
		return nil, &StateError{Message: "when_start()/when_not_start()/when_device_start() without matching end"}
	}

	if s.currentDevice != nil {
		s.devices = append(s.devices, *s.currentDevice)
		s.currentDevice = nil
	}

	return s.devices, nil
}

// pushBase appends a BaseKeyMapping to the innermost open conditional
// block if one is open, otherwise to the current device. It fails if
// neither is open.
func (s *parserState) pushBase(base config.BaseKeyMapping) error {
	if len(s.conditionalStack) > 0 {
		var top = len(s.conditionalStack) - 1
		s.conditionalStack[top].mappings = append(s.conditionalStack[top].mappings, base)

		return nil
	}

	if s.currentDevice == nil {
		return &StateError{Message: "map()/tap_hold() must be called inside a device_start() block"}
	}

	s.currentDevice.Mappings = append(s.currentDevice.Mappings, config.NewBaseMapping(base))

	return nil
}

func (s *parserState) startConditional(cond config.Condition) error {
	if s.currentDevice == nil {
		return &StateError{Message: "conditional blocks must be called inside a device_start() block"}
	}

	if len(s.conditionalStack) > 0 {
		return &StateError{Message: "nested conditional blocks are not supported"}
	}

	if len(s.conditionalStack)+1 > s.maxCallDepth {
		return &ResourceLimitExceededError{LimitType: "max_call_depth"}
	}

	s.conditionalStack = append(s.conditionalStack, conditionalFrame{condition: cond})

	return nil
}

func (s *parserState) endConditional() error {
	if len(s.conditionalStack) == 0 {
		return &StateError{Message: "when_end()/when_not_end()/when_device_end() called without matching start"}
	}

	var top = len(s.conditionalStack) - 1
	var frame = s.conditionalStack[top]
	s.conditionalStack = s.conditionalStack[:top]

	var mapping = config.NewConditionalMapping(frame.condition, frame.mappings)

	if s.currentDevice == nil {
		return &StateError{Message: "conditional blocks must be called inside a device_start() block"}
	}

	s.currentDevice.Mappings = append(s.currentDevice.Mappings, mapping)

	return nil
}
