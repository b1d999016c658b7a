// File: session/state.go
// Package session
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The session state machine (open -> unbinding -> closed) as a small
// interface-per-state pattern, grounded on session_state.hpp. Each concrete
// state answers what operations are legal in it; the session itself never
// branches on its own state directly.

package session

import "github.com/momentics/hioload-ws/api"

type stateObject interface {
	name() string
	canSend() bool
	canUnbind() bool
}

type openState struct{}

func (openState) name() string    { return "open" }
func (openState) canSend() bool   { return true }
func (openState) canUnbind() bool { return true }

type unbindingState struct{}

func (unbindingState) name() string    { return "unbinding" }
func (unbindingState) canSend() bool   { return false }
func (unbindingState) canUnbind() bool { return false }

type closedState struct{}

func (closedState) name() string    { return "closed" }
func (closedState) canSend() bool   { return false }
func (closedState) canUnbind() bool { return false }

func apiState(s stateObject) api.SessionState {
	switch s.(type) {
	case openState:
		return api.SessionOpen
	case unbindingState:
		return api.SessionUnbinding
	default:
		return api.SessionClosed
	}
}
