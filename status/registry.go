// Package status is a lock-free metrics registry shared by the scheduler and the renderer
package status

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Registry groups gauges by value type
// The scheduler writes every tick; the renderer reads between ticks
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns the number of gauges of every type
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Line renders gauges under prefix as "name=value", prefix stripped
// Labels come first, then integers, then floats with two decimals
func (r *Registry) Line(prefix string) string {
	var parts []string
	add := func(key, val string) {
		parts = append(parts, strings.TrimPrefix(key, prefix)+"="+val)
	}
	r.Strings.Range(prefix, func(k string, v *AtomicString) { add(k, v.Load()) })
	r.Ints.Range(prefix, func(k string, v *atomic.Int64) { add(k, fmt.Sprint(v.Load())) })
	r.Floats.Range(prefix, func(k string, v *AtomicFloat) { add(k, fmt.Sprintf("%.2f", v.Get())) })
	return strings.Join(parts, " ")
}
