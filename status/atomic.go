package status

import (
	"math"
	"sync/atomic"
)

// MaxStringLen bounds labels so the status bar stays one line
const MaxStringLen = 32

// AtomicFloat is a float64 gauge (field.x, field.y); the zero value reads 0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Set(v float64) { f.bits.Store(math.Float64bits(v)) }
func (f *AtomicFloat) Get() float64  { return math.Float64frombits(f.bits.Load()) }

// AtomicString is a label gauge (fsm.main, fsm.side); the zero value reads ""
type AtomicString struct {
	v atomic.Value
}

// Store keeps at most MaxStringLen bytes of s
func (a *AtomicString) Store(s string) {
	a.v.Store(s[:min(len(s), MaxStringLen)])
}

func (a *AtomicString) Load() string {
	s, _ := a.v.Load().(string)
	return s
}
