package scheduler

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
)

// SlotID names one of the two comparison slots
type SlotID string

const (
	SlotA SlotID = "A"
	SlotB SlotID = "B"
)

// ParseSlotID accepts "a"/"b" in any case
func ParseSlotID(s string) (SlotID, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return SlotA, nil
	case "B":
		return SlotB, nil
	}
	return "", fmt.Errorf("unknown slot %q", s)
}

// Other returns the opposite slot
func (id SlotID) Other() SlotID {
	if id == SlotA {
		return SlotB
	}
	return SlotA
}

// Workspace holds the two independent slots that share an engine
type Workspace struct {
	slots map[SlotID]*Slot
}

// NewWorkspace creates slots A and B, each with its own runner
func NewWorkspace(engine *calculation.MonteCarloEngine, opts SlotOptions, logger calculation.Logger) *Workspace {
	w := &Workspace{slots: make(map[SlotID]*Slot, 2)}
	for _, id := range []SlotID{SlotA, SlotB} {
		s := NewSlot(string(id), engine, opts)
		s.SetLogger(logger)
		w.slots[id] = s
	}
	return w
}

// Slot returns the slot for id; unknown ids return slot A
func (w *Workspace) Slot(id SlotID) *Slot {
	if s, ok := w.slots[id]; ok {
		return s
	}
	return w.slots[SlotA]
}

// Close closes both slots
func (w *Workspace) Close() {
	for _, s := range w.slots {
		s.Close()
	}
}
