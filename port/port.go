// SPDX-License-Identifier: EPL-2.0

// Package port holds tunable parameters of recalls.
//
// A Port stores one Value. Readers use SafeRead and fall back to a default
// when the port is missing or holds another kind of value.
package port

import (
	"fmt"
	"sync"
)

// Kind tags the content of a Value.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindDouble
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int64"
	case KindUint:
		return "uint64"
	case KindFloat:
		return "float32"
	case KindDouble:
		return "float64"
	}

	return "none"
}

// Value is a tagged box. The zero Value holds nothing.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
}

func BoolValue(v bool) Value      { return Value{kind: KindBool, b: v} }
func IntValue(v int64) Value      { return Value{kind: KindInt, i: v} }
func UintValue(v uint64) Value    { return Value{kind: KindUint, u: v} }
func FloatValue(v float32) Value  { return Value{kind: KindFloat, f: float64(v)} }
func DoubleValue(v float64) Value { return Value{kind: KindDouble, f: v} }

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) Bool() (bool, bool)      { return v.b, v.kind == KindBool }
func (v Value) Int() (int64, bool)      { return v.i, v.kind == KindInt }
func (v Value) Uint() (uint64, bool)    { return v.u, v.kind == KindUint }
func (v Value) Float() (float32, bool)  { return float32(v.f), v.kind == KindFloat }
func (v Value) Double() (float64, bool) { return v.f, v.kind == KindDouble }

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprint(v.b)
	case KindInt:
		return fmt.Sprint(v.i)
	case KindUint:
		return fmt.Sprint(v.u)
	case KindFloat, KindDouble:
		return fmt.Sprint(v.f)
	}

	return "<none>"
}

// Port is a named, mutex guarded Value.
type Port struct {
	mu sync.Mutex

	name  string
	value Value
}

// New returns a port holding initial.
func New(name string, initial Value) *Port {
	return &Port{
		name:  name,
		value: initial,
	}
}

func (p *Port) Name() string {
	return p.name
}

// SafeRead returns the current value.
func (p *Port) SafeRead() Value {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.value
}

// SafeWrite replaces the current value.
func (p *Port) SafeWrite(v Value) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.value = v
}

// ReadDouble returns the port's float64, or def when p is nil or holds
// another kind.
func ReadDouble(p *Port, def float64) float64 {
	if p == nil {
		return def
	}
	if v, ok := p.SafeRead().Double(); ok {
		return v
	}

	return def
}

// ReadBool returns the port's bool, or def.
func ReadBool(p *Port, def bool) bool {
	if p == nil {
		return def
	}
	if v, ok := p.SafeRead().Bool(); ok {
		return v
	}

	return def
}

// ReadUint returns the port's uint64, or def.
func ReadUint(p *Port, def uint64) uint64 {
	if p == nil {
		return def
	}
	if v, ok := p.SafeRead().Uint(); ok {
		return v
	}

	return def
}

// Write stores v when p is not nil.
func Write(p *Port, v Value) {
	if p == nil {
		return
	}

	p.SafeWrite(v)
}
