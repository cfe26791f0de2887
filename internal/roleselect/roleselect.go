// Package roleselect holds the state machine behind the start-journey screen:
// which of the two role panels is expanded and which login/signup tab is
// active inside it. At most one panel is ever open.
package roleselect

import (
	"errors"
	"sync"

	"versenest/models"
)

// Tab is a panel's inner mode.
type Tab string

const (
	TabLogin  Tab = "login"
	TabSignup Tab = "signup"
)

// DefaultTab is the tab a freshly opened panel shows.
const DefaultTab = TabSignup

// ErrNoActivePanel is returned for tab changes while both panels are closed.
var ErrNoActivePanel = errors.New("roleselect: no panel is open")

// ParseTab normalises a raw tab value, falling back to the default.
func ParseTab(value string) Tab {
	switch Tab(value) {
	case TabLogin:
		return TabLogin
	case TabSignup:
		return TabSignup
	default:
		return DefaultTab
	}
}

// State is a snapshot of the controller. ActiveRole is empty when both
// panels are closed; ActiveTab is meaningful only while a panel is open.
type State struct {
	ActiveRole models.Role
	ActiveTab  Tab
}

// Open reports whether any panel is expanded.
func (s State) Open() bool {
	return s.ActiveRole.Valid()
}

// Controller enforces the mutual-exclusivity invariant over the two role
// panels. The zero value is ready to use with both panels closed.
type Controller struct {
	mu    sync.Mutex
	state State
}

// Restore builds a controller from a previously captured snapshot, dropping
// snapshots that violate the invariants.
func Restore(state State) *Controller {
	c := &Controller{}
	if state.ActiveRole.Valid() {
		c.state = State{ActiveRole: state.ActiveRole, ActiveTab: ParseTab(string(state.ActiveTab))}
	}
	return c
}

// OpenRole expands the panel for role on the given tab. Opening one panel
// forces the other back to its closed state, and switching roles always
// resets the tab: the new panel never inherits the old panel's tab.
func (c *Controller) OpenRole(role models.Role, tab Tab) error {
	if !role.Valid() {
		return errors.New("roleselect: unknown role")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{ActiveRole: role, ActiveTab: ParseTab(string(tab))}
	return nil
}

// ChangeTab switches the open panel between login and signup. It is only
// valid while a panel is open and never alters which panel that is.
func (c *Controller) ChangeTab(tab Tab) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Open() {
		return ErrNoActivePanel
	}
	c.state.ActiveTab = ParseTab(string(tab))
	return nil
}

// CloseRole collapses the open panel. Any in-progress form state for that
// panel is the caller's to discard; nothing is persisted.
func (c *Controller) CloseRole() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{}
}

// Reset returns the controller to its initial state, as when the owning
// screen unmounts.
func (c *Controller) Reset() {
	c.CloseRole()
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
