// SPDX-License-Identifier: EPL-2.0

// Package recall identifies playback invocations. Every concurrent play of
// the same audio graph runs under its own ID; an ID's Context records
// whether the play is top level or nested inside another one.
package recall

import (
	"sync"
	"sync/atomic"
)

// SoundScope names what a play was started for.
type SoundScope int

const (
	ScopePlayback SoundScope = iota + 1
	ScopeSequencer
	ScopeNotation
	ScopeWave
	ScopeMIDI
)

func (s SoundScope) String() string {
	switch s {
	case ScopePlayback:
		return "playback"
	case ScopeSequencer:
		return "sequencer"
	case ScopeNotation:
		return "notation"
	case ScopeWave:
		return "wave"
	case ScopeMIDI:
		return "midi"
	}

	return "none"
}

var nextContextID atomic.Uint64

// Context is a node in the tree of recycling contexts. The root context
// belongs to the output channel; nested feeds get children.
type Context struct {
	mu sync.Mutex

	id       uint64
	parent   *Context
	children []*Context
}

// NewContext returns a root context.
func NewContext() *Context {
	return &Context{id: nextContextID.Add(1)}
}

// ID returns a process unique number for c.
func (c *Context) ID() uint64 {
	return c.id
}

// Parent returns the parent context, nil for a root.
func (c *Context) Parent() *Context {
	if c == nil {
		return nil
	}

	return c.parent
}

// Child creates and registers a new child of c.
func (c *Context) Child() *Context {
	child := &Context{
		id:     nextContextID.Add(1),
		parent: c,
	}

	c.mu.Lock()
	c.children = append(c.children, child)
	c.mu.Unlock()

	return child
}

// Children returns a snapshot of c's children.
func (c *Context) Children() []*Context {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*Context(nil), c.children...)
}

// RemoveChild drops child from c's children.
func (c *Context) RemoveChild(child *Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, ch := range c.children {
		if ch == child {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}

// ID is one playback invocation.
type ID struct {
	scope   SoundScope
	context *Context
}

// New returns an ID for scope running in ctx. A nil ctx gets a fresh root.
func New(scope SoundScope, ctx *Context) *ID {
	if ctx == nil {
		ctx = NewContext()
	}

	return &ID{scope: scope, context: ctx}
}

// SoundScope returns the scope id was started for.
func (id *ID) SoundScope() SoundScope {
	if id == nil {
		return 0
	}

	return id.scope
}

// CheckSoundScope reports whether id runs for any of scopes.
func (id *ID) CheckSoundScope(scopes ...SoundScope) bool {
	if id == nil {
		return false
	}

	for _, s := range scopes {
		if s == id.scope {
			return true
		}
	}

	return false
}

// Context returns the recycling context of id.
func (id *ID) Context() *Context {
	if id == nil {
		return nil
	}

	return id.context
}

// Child returns a new ID with the same scope in a child context of id's
// context.
func (id *ID) Child() *ID {
	return &ID{scope: id.scope, context: id.context.Child()}
}
