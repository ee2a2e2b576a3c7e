// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"sync"

	"github.com/ik5/notecore/internal/logx"
)

// Alloc returns a zero-filled heap buffer of size samples in format f.
// An unknown format logs a warning and yields nil.
func Alloc(size int, f Format) *Buffer {
	b := newBuffer(size, f)
	if b == nil {
		logx.Warn("stream: alloc of unknown format", "format", f, "size", size)
	}

	return b
}

// Free releases a buffer obtained from Alloc. A nil buffer is ignored.
func Free(b *Buffer) {
	if b == nil {
		return
	}

	b.data = nil
}

type poolKey struct {
	format Format
	size   int
}

// pools maps poolKey to *sync.Pool.
var pools sync.Map

func poolFor(size int, f Format) *sync.Pool {
	key := poolKey{format: f, size: size}
	if p, ok := pools.Load(key); ok {
		return p.(*sync.Pool)
	}

	p, _ := pools.LoadOrStore(key, &sync.Pool{
		New: func() any {
			return newBuffer(size, f)
		},
	})

	return p.(*sync.Pool)
}

// SliceAlloc returns a zero-filled buffer from the per format/size pool.
// Use it for high churn, size bounded buffers such as per period DSP
// scratch; release with SliceFree, never Free.
func SliceAlloc(size int, f Format) *Buffer {
	if !f.Valid() {
		logx.Warn("stream: slice alloc of unknown format", "format", f, "size", size)
		return nil
	}
	if size < 0 {
		size = 0
	}

	b := poolFor(size, f).Get().(*Buffer)
	return b
}

// SliceFree returns a SliceAlloc buffer to its pool. A nil buffer is
// ignored. The caller must not touch b afterwards.
func SliceFree(b *Buffer) {
	if b == nil || b.data == nil {
		return
	}

	b.Clear()
	poolFor(b.Len(), b.format).Put(b)
}

// Release frees b with the allocator selected by sliceAlloc.
func Release(b *Buffer, sliceAlloc bool) {
	if sliceAlloc {
		SliceFree(b)
		return
	}

	Free(b)
}

// Allocate obtains a buffer with the allocator selected by sliceAlloc.
func Allocate(size int, f Format, sliceAlloc bool) *Buffer {
	if sliceAlloc {
		return SliceAlloc(size, f)
	}

	return Alloc(size, f)
}
