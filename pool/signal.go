package pool

import "sync/atomic"

// Signal is the pool-wide run state that workers observe through Check.
type Signal int32

const (
	// SignalNone is the state before the coordinator sets anything.
	SignalNone Signal = iota
	// SignalPlay lets paused workers continue.
	SignalPlay
	// SignalPause makes Check block until the signal changes.
	SignalPause
	// SignalStop makes Check return true.
	SignalStop
)

func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "none"
	case SignalPlay:
		return "play"
	case SignalPause:
		return "pause"
	case SignalStop:
		return "stop"
	default:
		return "unknown"
	}
}

// signalCell holds the shared Signal. Every access is a single atomic load or
// swap, so no reader ever holds it across a wait.
type signalCell struct {
	v atomic.Int32
}

func (c *signalCell) load() Signal { return Signal(c.v.Load()) }

// swap stores s and returns the previous state.
func (c *signalCell) swap(s Signal) Signal { return Signal(c.v.Swap(int32(s))) }
