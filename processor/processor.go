// Package processor implements the event pipeline's hot path: joining
// a compiled KeyLookup, persistent DeviceState, and the tap-hold
// registry to turn one observed KeyEvent into zero or more synthesized
// KeyEvents.
package processor

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/krxproject/krxd/config"
	"github.com/krxproject/krxd/keycode"
	"github.com/krxproject/krxd/lookup"
	"github.com/krxproject/krxd/state"
	"github.com/krxproject/krxd/taphold"
)

// DefaultMaxOutputEvents bounds the number of output events a single
// input event may produce, limiting the blast radius of ModifiedOutput
// combined with tap-hold promotion.
const DefaultMaxOutputEvents = 16

// Processor owns the live runtime state for one input stream: the
// immutable lookup table, the mutable device state, and the tap-hold
// pending registry. It is not safe for concurrent use; the daemon
// holds exclusive access per spec.md's single-threaded processor
// model.
type Processor struct {
	Lookup   *lookup.KeyLookup
	State    *state.DeviceState
	Registry *taphold.Registry

	log             *logrus.Logger
	maxOutputEvents int
}

// New builds a Processor over lookup, state, and registry. A nil
// logger disables observability logging.
func New(lk *lookup.KeyLookup, st *state.DeviceState, reg *taphold.Registry, log *logrus.Logger) *Processor {
	return &Processor{Lookup: lk, State: st, Registry: reg, log: log, maxOutputEvents: DefaultMaxOutputEvents}
}

// ProcessEvent runs the per-event algorithm of spec §4.6 against p's
// lookup table, device state, and tap-hold registry, returning the
// output events produced (nil/empty for passthrough-suppressing
// mapping kinds like Modifier and Lock).
func (p *Processor) ProcessEvent(input config.KeyEvent) []config.KeyEvent {
	var now = input.TimestampUs

	p.applyTimeouts(now)

	if input.Variant == config.Press {
		p.applyPermissiveHold(input.Key)
	}

	var mapping, ok = p.Lookup.Resolve(input.Key, p.State, input.DeviceID, input.HasDeviceID)
	if !ok {
		return []config.KeyEvent{input}
	}

	var out []config.KeyEvent

	switch mapping.Kind {
	case config.SimpleMapping:
		out = []config.KeyEvent{p.derive(input, mapping.To)}
	case config.ModifierMapping:
		if input.Variant == config.Press {
			p.State.SetModifier(mapping.CustomID)
		} else {
			p.State.ClearModifier(mapping.CustomID)
		}
	case config.LockMapping:
		if input.Variant == config.Press {
			p.State.ToggleLock(mapping.CustomID)
		}
	case config.TapHoldMapping:
		out = p.processTapHold(input, mapping)
	case config.ModifiedOutputMapping:
		out = p.processModifiedOutput(input, mapping)
	}

	return p.bound(out)
}

func (p *Processor) applyTimeouts(now uint64) {
	var result = p.Registry.CheckTimeouts(now)

	for _, key := range result.Promoted {
		p.applyHoldModifier(key)
	}
}

func (p *Processor) applyPermissiveHold(trigger keycode.Code) {
	var promoted = p.Registry.PromotePendingExcept(trigger)

	for _, key := range promoted {
		p.applyHoldModifier(key)
	}
}

func (p *Processor) applyHoldModifier(key keycode.Code) {
	var s, ok = p.Registry.Get(key)
	if !ok {
		return
	}

	p.State.SetModifier(s.Config.HoldModifierID)
}

func (p *Processor) processTapHold(input config.KeyEvent, mapping config.BaseKeyMapping) []config.KeyEvent {
	if input.Variant == config.Press {
		var cfg = taphold.Config{
			TapKey:         mapping.TapKey,
			HoldModifierID: mapping.HoldModifier,
			ThresholdUs:    uint64(mapping.ThresholdMs) * 1000,
		}

		p.Registry.StartPending(input.Key, cfg, input.TimestampUs)

		return nil
	}

	var s, tracked = p.Registry.Get(input.Key)
	if !tracked {
		return []config.KeyEvent{input}
	}

	var phase = s.Phase()
	var cfg = s.Config

	p.Registry.Release(input.Key)

	switch phase {
	case taphold.Pending:
		return []config.KeyEvent{
			config.NewKeyEvent(config.Press, cfg.TapKey, input.DeviceID, input.TimestampUs),
			config.NewKeyEvent(config.Release, cfg.TapKey, input.DeviceID, input.TimestampUs),
		}
	case taphold.Hold:
		p.State.ClearModifier(cfg.HoldModifierID)

		return nil
	default:
		return nil
	}
}

func (p *Processor) processModifiedOutput(input config.KeyEvent, mapping config.BaseKeyMapping) []config.KeyEvent {
	var out []config.KeyEvent

	if input.Variant == config.Press {
		for _, mod := range modifierOrder(mapping) {
			out = append(out, p.derive(input, mod))
		}

		out = append(out, p.derive(input, mapping.To))

		return out
	}

	out = append(out, p.derive(input, mapping.To))

	var order = modifierOrder(mapping)
	for i := len(order) - 1; i >= 0; i-- {
		out = append(out, p.derive(input, order[i]))
	}

	return out
}

// modifierOrder returns the physical modifier keys requested by a
// ModifiedOutput mapping, in the fixed authoring order shift, ctrl,
// alt, win.
func modifierOrder(mapping config.BaseKeyMapping) []keycode.Code {
	var order []keycode.Code

	if mapping.Shift {
		order = append(order, keycode.LShift)
	}

	if mapping.Ctrl {
		order = append(order, keycode.LCtrl)
	}

	if mapping.Alt {
		order = append(order, keycode.LAlt)
	}

	if mapping.Win {
		order = append(order, keycode.LMeta)
	}

	return order
}

func (p *Processor) derive(input config.KeyEvent, key keycode.Code) config.KeyEvent {
	return config.KeyEvent{
		Variant:     input.Variant,
		Key:         key,
		DeviceID:    input.DeviceID,
		HasDeviceID: input.HasDeviceID,
		TimestampUs: input.TimestampUs,
	}
}

func (p *Processor) bound(out []config.KeyEvent) []config.KeyEvent {
	if len(out) <= p.maxOutputEvents {
		return out
	}

	if p.log != nil {
		p.log.WithFields(logrus.Fields{
			"produced": len(out),
			"max":      p.maxOutputEvents,
		}).Warn("processor: output event bound exceeded, truncating")
	}

	return out[:p.maxOutputEvents]
}

// ReloadRequest carries a freshly-built lookup table into a running
// RunLoop. It is applied on RunLoop's own goroutine, preserving the
// single-threaded access Processor requires: no caller may touch
// Lookup, State, or Registry directly while RunLoop is active.
type ReloadRequest struct {
	Lookup *lookup.KeyLookup
}

// RunLoop pumps events from in to out until in.NextEvent reports
// EndOfStream or shutdown reports closed, applying ProcessEvent to
// each. A failed inject is fatal to the current event and bubbles up
// immediately: a dropped output event is never acceptable.
//
// reload delivers ReloadRequests between events: RunLoop swaps in the
// new lookup table and resets State/Registry itself, so a reload never
// races the event it's applied between.
func (p *Processor) RunLoop(in InputStream, out OutputSink, shutdown <-chan struct{}, reload <-chan *ReloadRequest) error {
	for {
		select {
		case <-shutdown:
			return nil
		case req := <-reload:
			p.Lookup = req.Lookup
			p.State.Reset()
			p.Registry.Reset()

			continue
		default:
		}

		var event, err = in.NextEvent()
		if err != nil {
			var inputErr *InputError

			if errors.As(err, &inputErr) && inputErr.Kind == EndOfStream {
				return nil
			}

			return fmt.Errorf("processor.RunLoop: %w", err)
		}

		// A reload that arrived while NextEvent was blocked is applied
		// before the event it was waiting on.
		select {
		case req := <-reload:
			p.Lookup = req.Lookup
			p.State.Reset()
			p.Registry.Reset()
		default:
		}

		var produced = p.ProcessEvent(event)

		for _, outEvent := range produced {
			if injectErr := out.Inject(outEvent); injectErr != nil {
				return fmt.Errorf("processor.RunLoop: %w", injectErr)
			}
		}
	}
}
