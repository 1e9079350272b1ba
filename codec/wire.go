package codec

import (
	"fmt"

	"github.com/krxproject/krxd/config"
	"github.com/krxproject/krxd/keycode"
)

// The wire* types below are the structural encoding CBOR actually
// stores. They mirror the config package's entities field-for-field,
// except device patterns are carried as plain strings: config.DeviceIdentifier
// holds an unexported compiled glob.Glob that has no business crossing
// the wire, and is rebuilt on decode.

type wireRoot struct {
	Version  config.Version
	Devices  []wireDevice
	Metadata config.Metadata
}

type wireDevice struct {
	Pattern  string
	Mappings []wireMapping
}

type wireMapping struct {
	IsConditional bool

	// Base mapping fields, used when !IsConditional.
	Base wireBase

	// Conditional mapping fields, used when IsConditional.
	Condition wireCondition
	Mappings  []wireBase
}

type wireBase struct {
	Kind         config.BaseMappingKind
	From         keycode.Code
	To           keycode.Code
	CustomID     uint8
	TapKey       keycode.Code
	HoldModifier uint8
	ThresholdMs  uint16
	Shift        bool
	Ctrl         bool
	Alt          bool
	Win          bool
}

type wireConditionItem struct {
	Kind config.ConditionItemKind
	ID   uint8
}

type wireCondition struct {
	Kind          config.ConditionKind
	ModifierID    uint8
	LockID        uint8
	Items         []wireConditionItem
	DevicePattern string
}

func toWireRoot(root *config.ConfigRoot) wireRoot {
	var devices = make([]wireDevice, len(root.Devices))

	for i, dev := range root.Devices {
		devices[i] = toWireDevice(dev)
	}

	return wireRoot{Version: root.Version, Devices: devices, Metadata: root.Metadata}
}

func toWireDevice(dev config.DeviceConfig) wireDevice {
	var mappings = make([]wireMapping, len(dev.Mappings))

	for i, m := range dev.Mappings {
		mappings[i] = toWireMapping(m)
	}

	return wireDevice{Pattern: dev.Identifier.Pattern, Mappings: mappings}
}

func toWireMapping(m config.KeyMapping) wireMapping {
	if m.IsConditional() {
		var bases = make([]wireBase, len(m.Mappings))

		for i, b := range m.Mappings {
			bases[i] = toWireBase(b)
		}

		return wireMapping{
			IsConditional: true,
			Condition:     toWireCondition(*m.Condition),
			Mappings:      bases,
		}
	}

	return wireMapping{Base: toWireBase(*m.Base)}
}

func toWireBase(b config.BaseKeyMapping) wireBase {
	return wireBase{
		Kind: b.Kind, From: b.From, To: b.To, CustomID: b.CustomID,
		TapKey: b.TapKey, HoldModifier: b.HoldModifier, ThresholdMs: b.ThresholdMs,
		Shift: b.Shift, Ctrl: b.Ctrl, Alt: b.Alt, Win: b.Win,
	}
}

func toWireCondition(c config.Condition) wireCondition {
	var items = make([]wireConditionItem, len(c.Items))

	for i, it := range c.Items {
		items[i] = wireConditionItem{Kind: it.Kind, ID: it.ID}
	}

	return wireCondition{
		Kind: c.Kind, ModifierID: c.ModifierID, LockID: c.LockID,
		Items: items, DevicePattern: c.DevicePattern.Pattern,
	}
}

func fromWireRoot(w wireRoot) (*config.ConfigRoot, error) {
	var devices = make([]config.DeviceConfig, len(w.Devices))

	for i, wd := range w.Devices {
		var dev, err = fromWireDevice(wd)
		if err != nil {
			return nil, err
		}

		devices[i] = dev
	}

	return &config.ConfigRoot{Version: w.Version, Devices: devices, Metadata: w.Metadata}, nil
}

func fromWireDevice(w wireDevice) (config.DeviceConfig, error) {
	var (
		id  config.DeviceIdentifier
		err error
	)

	id, err = config.NewDeviceIdentifier(w.Pattern)
	if err != nil {
		return config.DeviceConfig{}, fmt.Errorf("codec.fromWireDevice: %w", err)
	}

	var mappings = make([]config.KeyMapping, len(w.Mappings))

	for i, wm := range w.Mappings {
		var m, merr = fromWireMapping(wm)
		if merr != nil {
			return config.DeviceConfig{}, merr
		}

		mappings[i] = m
	}

	return config.DeviceConfig{Identifier: id, Mappings: mappings}, nil
}

func fromWireMapping(w wireMapping) (config.KeyMapping, error) {
	if w.IsConditional {
		var (
			cond    config.Condition
			err     error
			mapping config.KeyMapping
		)

		cond, err = fromWireCondition(w.Condition)
		if err != nil {
			return mapping, err
		}

		var bases = make([]config.BaseKeyMapping, len(w.Mappings))

		for i, wb := range w.Mappings {
			bases[i] = fromWireBase(wb)
		}

		return config.NewConditionalMapping(cond, bases), nil
	}

	return config.NewBaseMapping(fromWireBase(w.Base)), nil
}

func fromWireBase(w wireBase) config.BaseKeyMapping {
	return config.BaseKeyMapping{
		Kind: w.Kind, From: w.From, To: w.To, CustomID: w.CustomID,
		TapKey: w.TapKey, HoldModifier: w.HoldModifier, ThresholdMs: w.ThresholdMs,
		Shift: w.Shift, Ctrl: w.Ctrl, Alt: w.Alt, Win: w.Win,
	}
}

func fromWireCondition(w wireCondition) (config.Condition, error) {
	var items = make([]config.ConditionItem, len(w.Items))

	for i, wi := range w.Items {
		items[i] = config.ConditionItem{Kind: wi.Kind, ID: wi.ID}
	}

	if w.Kind == config.DeviceMatchesCondition {
		var id, err = config.NewDeviceIdentifier(w.DevicePattern)
		if err != nil {
			return config.Condition{}, fmt.Errorf("codec.fromWireCondition: %w", err)
		}

		return config.DeviceMatches(id), nil
	}

	return config.Condition{
		Kind: w.Kind, ModifierID: w.ModifierID, LockID: w.LockID, Items: items,
	}, nil
}
