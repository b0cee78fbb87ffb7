// Package command implements the device command processor. It owns the
// validation, ordering and persistence rules for every operation the
// surfaces can submit. The processor is not goroutine safe; the core loop
// serializes access.
package command

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lednode/lednode/internal/device"
	"github.com/lednode/lednode/internal/effects"
	"github.com/lednode/lednode/internal/events"
	"github.com/lednode/lednode/internal/logging"
	"github.com/lednode/lednode/internal/metrics"
	"github.com/lednode/lednode/internal/palette"
	"github.com/lednode/lednode/internal/persist"
)

// Processor applies commands to the device state and palette.
type Processor struct {
	state   *device.State
	palette *palette.Palette
	store   persist.Store
	effects *effects.Registry
	bus     *events.Bus
	logger  *slog.Logger
}

// NewProcessor creates a command processor over the given collaborators.
// The bus may be nil, in which case palette events are not broadcast.
func NewProcessor(state *device.State, pal *palette.Palette, store persist.Store, reg *effects.Registry, bus *events.Bus) *Processor {
	return &Processor{
		state:   state,
		palette: pal,
		store:   store,
		effects: reg,
		bus:     bus,
		logger:  logging.GetLogger("command"),
	}
}

// SetColor shows a color without saving it. A color already in the palette
// activates its saved slot; anything else goes to the scratch slot.
func (p *Processor) SetColor(hex string, brightness int) (view StateView, err error) {
	defer func() { metrics.RecordCommand(KindSetColor, ErrorCode(err)) }()

	entry, err := ParseEntry(hex, brightness)
	if err != nil {
		return StateView{}, err
	}

	idx, ok := p.palette.Find(entry)
	if !ok {
		idx = palette.ScratchIndex
		p.palette.SetScratch(entry)
	}

	p.state.Mode = device.ModeColor
	p.state.ColorIndex = idx
	p.state.MarkDirty()

	p.logger.Debug("Color set", "color", entry.Hex(), "brightness", entry.Brightness, "scratch", !ok)
	return p.StateView(), nil
}

// SetOff turns the strip off. Never fails.
func (p *Processor) SetOff() StateView {
	defer metrics.RecordCommand(KindSetOff, "")

	p.state.Mode = device.ModeOff
	p.state.MarkDirty()

	p.logger.Debug("Device off")
	return p.StateView()
}

// SetEffect activates an effect by exact name. The renderer restarts the
// animation from frame zero when it picks up the change.
func (p *Processor) SetEffect(name string) (view StateView, err error) {
	defer func() { metrics.RecordCommand(KindSetEffect, ErrorCode(err)) }()

	idx, ok := p.effects.Lookup(name)
	if !ok {
		return StateView{}, NewCommandError(ErrCodeUnknownEffect,
			fmt.Sprintf("no effect named %q", truncate(name)), nil)
	}

	p.state.Mode = device.ModeEffect
	p.state.EffectIndex = idx
	p.state.MarkDirty()

	p.logger.Debug("Effect set", "effect", name)
	return p.StateView(), nil
}

// ListSaved returns the saved palette entries in insertion order. The
// scratch slot is never included.
func (p *Processor) ListSaved() []SavedColor {
	entries := p.palette.Saved()
	out := make([]SavedColor, 0, len(entries))
	for i, e := range entries {
		out = append(out, SavedColor{Index: i, Color: e.Hex(), Brightness: e.Brightness})
	}
	return out
}

// Save appends a color to the palette and commits it. The capacity check
// runs before validation so a full palette answers Full even for garbage
// input. What is currently shown does not change.
func (p *Processor) Save(hex string, brightness int) (saved SavedColor, err error) {
	defer func() { metrics.RecordCommand(KindSaveColor, ErrorCode(err)) }()

	if p.palette.Full() {
		return SavedColor{}, NewCommandError(ErrCodePaletteFull,
			fmt.Sprintf("palette already holds %d colors", palette.Capacity), nil)
	}

	entry, err := ParseEntry(hex, brightness)
	if err != nil {
		return SavedColor{}, err
	}

	if _, ok := p.palette.Find(entry); ok {
		return SavedColor{}, NewCommandError(ErrCodeDuplicateColor,
			fmt.Sprintf("color %s at brightness %d is already saved", entry.Hex(), entry.Brightness), nil)
	}

	slots, count := p.palette.Dump()
	idx, _ := p.palette.Append(entry)
	if err := p.commit(); err != nil {
		p.palette.Restore(slots, count)
		p.logger.Warn("Save rolled back, commit failed", "error", err)
		return SavedColor{}, NewCommandError(ErrCodeStorageFailure,
			"could not persist palette", err)
	}

	p.logger.Info("Color saved", "color", entry.Hex(), "brightness", entry.Brightness, "index", idx)
	p.publishPalette("saved", entry)
	return SavedColor{Index: idx, Color: entry.Hex(), Brightness: entry.Brightness}, nil
}

// Delete removes a saved color and commits. Entries above it shift down
// and the active index follows the shift.
func (p *Processor) Delete(hex string, brightness int) (remaining []SavedColor, err error) {
	defer func() { metrics.RecordCommand(KindDeleteColor, ErrorCode(err)) }()

	entry, err := ParseEntry(hex, brightness)
	if err != nil {
		return nil, err
	}

	idx, ok := p.palette.Find(entry)
	if !ok {
		return nil, NewCommandError(ErrCodeColorNotFound,
			fmt.Sprintf("color %s at brightness %d is not saved", entry.Hex(), entry.Brightness), nil)
	}

	slots, count := p.palette.Dump()
	prevIdx := p.state.ColorIndex
	p.palette.RemoveAt(idx, p.state)
	if err := p.commit(); err != nil {
		p.palette.Restore(slots, count)
		p.state.ColorIndex = prevIdx
		p.logger.Warn("Delete rolled back, commit failed", "error", err)
		return nil, NewCommandError(ErrCodeStorageFailure,
			"could not persist palette", err)
	}

	p.state.MarkDirty()
	p.logger.Info("Color deleted", "color", entry.Hex(), "brightness", entry.Brightness, "index", idx)
	p.publishPalette("deleted", entry)
	return p.ListSaved(), nil
}

// StateView snapshots the current device state for responses and queries.
func (p *Processor) StateView() StateView {
	v := StateView{Mode: p.state.Mode.String(), Count: p.palette.Count()}

	switch p.state.Mode {
	case device.ModeColor:
		entry := p.palette.Slot(p.state.ColorIndex)
		v.Color = entry.Hex()
		v.Brightness = entry.Brightness
		v.Scratch = p.state.ColorIndex == palette.ScratchIndex
	case device.ModeEffect:
		v.Effect = p.effects.At(p.state.EffectIndex).Name()
	}
	return v
}

// commit snapshots the live state into a record and writes it through the
// store.
func (p *Processor) commit() error {
	slots, count := p.palette.Dump()
	err := p.store.Commit(persist.Record{
		Mode:        uint8(p.state.Mode),
		ColorIndex:  uint8(p.state.ColorIndex),
		EffectIndex: uint8(p.state.EffectIndex),
		Count:       uint8(count),
		Slots:       slots,
	})
	metrics.RecordCommit(err)
	return err
}

func (p *Processor) publishPalette(action string, entry palette.Entry) {
	if p.bus == nil {
		return
	}
	p.bus.Publish(events.PaletteChangedEvent{
		Action:     action,
		ColorHex:   entry.Hex(),
		Brightness: entry.Brightness,
		Count:      p.palette.Count(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}
