// Package state owns the application mode and focus target, resolving
// possibly-conflicting gesture signals through fixed priority rules.
package state

import (
	"math/rand"
	"sync"
	"time"

	"github.com/ayusman/tinsel/internal/gesture"
)

// Mode is the current application mode. Exactly one is active at a time.
type Mode string

const (
	// ModeAssembled shows the ornaments arranged on the tree.
	ModeAssembled Mode = "assembled"
	// ModeDispersed scatters the ornaments for browsing.
	ModeDispersed Mode = "dispersed"
	// ModeFocused singles out one photo panel.
	ModeFocused Mode = "focused"
)

// Machine resolves gesture signals and direct-selection events into mode
// and focus transitions. All mutation of mode and focus funnels through
// this type; the animation engine only ever reads it.
type Machine struct {
	mu            sync.Mutex
	mode          Mode
	focusID       string
	cooldownUntil time.Time
	prevPointing  bool
	pendingDelete bool
	onTransition  []func(Mode)
}

// New creates a Machine starting in the assembled mode with no focus.
func New() *Machine {
	return &Machine{
		mode: ModeAssembled,
	}
}

// OnTransition registers a callback invoked whenever the mode changes.
// Callbacks run outside the machine's lock, in registration order.
func (m *Machine) OnTransition(fn func(Mode)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTransition = append(m.onTransition, fn)
}

// Apply processes one gesture signal against the current state.
// selectable lists the ids eligible for focus (the photo panels).
// Priority, first match wins:
//
//  1. fist: reset to assembled, clear focus and any pending delete.
//  2. pointing with selectable items: pick a random focus on a fresh
//     point or when not already focused; a held point keeps its focus.
//  3. open palm: disperse, dropping focus if leaving the focused mode.
//  4. pinch while dispersed with no focus: focus the first selectable.
//  5. otherwise nothing changes.
//
// All gesture transitions are suppressed until the cooldown deadline
// passes. Direct selection via Select is not subject to the cooldown.
func (m *Machine) Apply(sig gesture.Signal, selectable []string, now time.Time) {
	m.mu.Lock()

	freshPoint := sig.IsPointing && !m.prevPointing
	m.prevPointing = sig.IsPointing

	if now.Before(m.cooldownUntil) {
		m.mu.Unlock()
		return
	}

	var notify func(Mode)
	var changedTo Mode

	switch {
	case sig.IsFist:
		changedTo, notify = m.transition(ModeAssembled, "")
		m.pendingDelete = false

	case sig.IsPointing && len(selectable) > 0:
		if m.mode != ModeFocused || freshPoint {
			id := selectable[rand.Intn(len(selectable))]
			changedTo, notify = m.transition(ModeFocused, id)
		}
		// Held point while already focused: keep the existing focus.

	case sig.IsOpen:
		changedTo, notify = m.transition(ModeDispersed, "")

	case m.mode == ModeDispersed && sig.IsPinching && m.focusID == "" && len(selectable) > 0:
		// Pinch fallback fires only from the dispersed mode with no
		// focus; pinching from assembled deliberately does nothing.
		changedTo, notify = m.transition(ModeFocused, selectable[0])
	}

	m.mu.Unlock()

	if notify != nil {
		notify(changedTo)
	}
}

// transition atomically sets mode and focus together so no reader can
// observe a focused mode without its focus id. Returns the notification
// callback when the mode actually changed. Caller holds the lock.
func (m *Machine) transition(mode Mode, focusID string) (Mode, func(Mode)) {
	changed := m.mode != mode
	m.mode = mode
	m.focusID = focusID

	if changed && len(m.onTransition) > 0 {
		callbacks := append([]func(Mode){}, m.onTransition...)
		return mode, func(to Mode) {
			for _, fn := range callbacks {
				fn(to)
			}
		}
	}
	return mode, nil
}

// Select handles a direct-selection event from the renderer's pointer
// layer. It always wins: cooldown and gesture priority do not apply.
func (m *Machine) Select(id string) {
	m.mu.Lock()
	_, notify := m.transition(ModeFocused, id)
	m.pendingDelete = false
	m.mu.Unlock()

	if notify != nil {
		notify(ModeFocused)
	}
}

// ClearFocus exits the focused mode, returning to the dispersed layout.
// Used by the host when a photo is closed or deleted.
func (m *Machine) ClearFocus() {
	m.mu.Lock()
	_, notify := m.transition(ModeDispersed, "")
	m.pendingDelete = false
	m.mu.Unlock()

	if notify != nil {
		notify(ModeDispersed)
	}
}

// SetCooldown suppresses all gesture-driven transitions until the given
// deadline. Host-driven actions such as deleting a photo use this so a
// stale gesture cannot immediately re-trigger a transition.
func (m *Machine) SetCooldown(until time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cooldownUntil = until
}

// SetPendingDelete marks or clears the delete-confirmation state shown
// by the host UI while a photo is focused.
func (m *Machine) SetPendingDelete(pending bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingDelete = pending
}

// PendingDelete reports whether a delete confirmation is pending.
func (m *Machine) PendingDelete() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingDelete
}

// Mode returns the current application mode.
func (m *Machine) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// FocusID returns the id of the focused item, or "" when nothing is
// focused.
func (m *Machine) FocusID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focusID
}

// Snapshot returns mode and focus id read under a single lock, so the
// pair is always consistent.
func (m *Machine) Snapshot() (Mode, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode, m.focusID
}
