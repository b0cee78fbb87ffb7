// Package palette implements the saved color palette: a fixed number of
// saved slots in insertion order plus one scratch slot for the current
// unsaved color.
package palette

import (
	"fmt"

	"github.com/lednode/lednode/internal/device"
)

const (
	// Capacity is the number of saved entries the palette holds.
	Capacity = 10
	// ScratchIndex addresses the scratch slot. The scratch slot never
	// counts toward Capacity and may be overwritten at any time.
	ScratchIndex = Capacity
	// SlotCount is the total number of slots including scratch.
	SlotCount = Capacity + 1
)

// Entry is one palette color. Two entries are the same color only when all
// four fields match exactly.
type Entry struct {
	R          uint8
	G          uint8
	B          uint8
	Brightness uint8 // 0-100
}

// Hex returns the color as six uppercase hex characters, e.g. "FF8800".
func (e Entry) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", e.R, e.G, e.B)
}

// Palette holds the saved entries and the scratch slot.
type Palette struct {
	slots [SlotCount]Entry
	count int
}

// New returns an empty palette.
func New() *Palette {
	return &Palette{}
}

// Count returns the number of saved entries.
func (p *Palette) Count() int {
	return p.count
}

// Full reports whether the palette has no room for another saved entry.
func (p *Palette) Full() bool {
	return p.count == Capacity
}

// Slot returns the entry at index i, which must be in [0, ScratchIndex].
func (p *Palette) Slot(i int) Entry {
	return p.slots[i]
}

// Scratch returns the scratch slot.
func (p *Palette) Scratch() Entry {
	return p.slots[ScratchIndex]
}

// SetScratch overwrites the scratch slot.
func (p *Palette) SetScratch(e Entry) {
	p.slots[ScratchIndex] = e
}

// Find scans the saved entries in insertion order and returns the index of
// the first exact match.
func (p *Palette) Find(e Entry) (int, bool) {
	for i := 0; i < p.count; i++ {
		if p.slots[i] == e {
			return i, true
		}
	}
	return 0, false
}

// Append stores a new saved entry after the existing ones and returns its
// index. It fails when the palette is full.
func (p *Palette) Append(e Entry) (int, bool) {
	if p.Full() {
		return 0, false
	}
	p.slots[p.count] = e
	p.count++
	return p.count - 1, true
}

// RemoveAt deletes the saved entry at index i, shifting later entries down
// so the saved range stays gapless, and adjusts the active color index on
// the given state: removing the active entry resets the index to 0, removing
// an entry below it shifts it down by one.
func (p *Palette) RemoveAt(i int, st *device.State) bool {
	if i < 0 || i >= p.count {
		return false
	}

	copy(p.slots[i:p.count-1], p.slots[i+1:p.count])
	p.count--
	p.slots[p.count] = Entry{}

	if st != nil {
		switch {
		case st.ColorIndex == i:
			st.ColorIndex = 0
		case st.ColorIndex > i && st.ColorIndex != ScratchIndex:
			st.ColorIndex--
		}
	}
	return true
}

// Saved returns a copy of the saved entries in insertion order. The scratch
// slot is never included.
func (p *Palette) Saved() []Entry {
	out := make([]Entry, p.count)
	copy(out, p.slots[:p.count])
	return out
}

// Reset drops every entry including scratch.
func (p *Palette) Reset() {
	p.slots = [SlotCount]Entry{}
	p.count = 0
}

// Dump returns the raw slots and count for persistence.
func (p *Palette) Dump() ([SlotCount]Entry, int) {
	return p.slots, p.count
}

// Restore replaces the palette content from persisted slots and count.
// Counts beyond Capacity are clamped.
func (p *Palette) Restore(slots [SlotCount]Entry, count int) {
	if count < 0 {
		count = 0
	}
	if count > Capacity {
		count = Capacity
	}
	p.slots = slots
	p.count = count
}
