// SPDX-License-Identifier: EPL-2.0

package audiosignal

import (
	"github.com/ik5/notecore/internal/logx"
	"github.com/ik5/notecore/stream"
)

// Stream returns a snapshot of the buffer list. The buffers themselves are
// shared, not copied.
func (s *AudioSignal) Stream() []*stream.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*stream.Buffer(nil), s.stream...)
}

// Buffer returns the i-th stream buffer or nil.
func (s *AudioSignal) Buffer(i int) *stream.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.stream) {
		return nil
	}

	return s.stream[i]
}

// Current returns the buffer under the playback cursor, nil when the cursor
// is unset.
func (s *AudioSignal) Current() *stream.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current < 0 {
		return nil
	}

	return s.stream[s.current]
}

// CurrentIndex returns the cursor position, -1 when unset.
func (s *AudioSignal) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

// SetCurrent moves the cursor; an out of range index unsets it.
func (s *AudioSignal) SetCurrent(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.stream) {
		s.current = -1
		return
	}

	s.current = i
}

// Next advances the cursor and returns the new current buffer. Running past
// the tail unsets the cursor.
func (s *AudioSignal) Next() *stream.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current < 0 {
		return nil
	}

	s.current++
	if s.current >= len(s.stream) {
		s.current = -1
		return nil
	}

	return s.stream[s.current]
}

// LengthTillCurrent returns the number of buffers before the cursor.
func (s *AudioSignal) LengthTillCurrent() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current < 0 {
		return len(s.stream)
	}

	return s.current
}

// AddStream appends one zeroed buffer.
func (s *AudioSignal) AddStream() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.streamResize(len(s.stream) + 1)
}

// StreamResize grows the stream by appending zeroed buffers or shrinks it
// from the tail. Surviving buffers are never reallocated. A cursor inside
// the truncated region is unset.
func (s *AudioSignal) StreamResize(length int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.streamResize(length)
}

// StreamSafeResize is StreamResize that never drops the buffer under the
// cursor nor any before it.
func (s *AudioSignal) StreamSafeResize(length int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.streamSafeResize(length)
}

// Clear zeroes every buffer.
func (s *AudioSignal) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.stream {
		b.Clear()
	}
}

func (s *AudioSignal) sliceAlloc() bool {
	return s.flags&FlagSliceAlloc != 0
}

func (s *AudioSignal) streamResize(length int) {
	length = max(length, 0)
	old := len(s.stream)

	switch {
	case length > old:
		for range length - old {
			b := stream.Allocate(s.bufferSize, s.format, s.sliceAlloc())
			if b == nil {
				logx.Warn("audiosignal: stream resize stopped, buffer allocation failed",
					"format", s.format, "buffer_size", s.bufferSize)
				break
			}
			s.stream = append(s.stream, b)
		}
		if old == 0 && len(s.stream) > 0 && s.current < 0 {
			s.current = 0
		}
	case length < old:
		s.releaseFrom(length)
		clear(s.stream[length:])
		s.stream = s.stream[:length]
		if s.current >= length {
			s.current = -1
		}
	}
}

func (s *AudioSignal) streamSafeResize(length int) {
	if s.current >= 0 {
		length = max(length, s.current+1)
	}

	s.streamResize(length)
}

// releaseFrom frees stream[i:] with the signal's allocator.
func (s *AudioSignal) releaseFrom(i int) {
	slice := s.sliceAlloc()
	for _, b := range s.stream[i:] {
		stream.Release(b, slice)
	}
}

// totalFrames is the capacity of the stream in frames.
func (s *AudioSignal) totalFrames() int {
	return len(s.stream) * s.bufferSize
}

// flatten copies the whole stream into one heap buffer.
func (s *AudioSignal) flatten() *stream.Buffer {
	flat := stream.Alloc(s.totalFrames(), s.format)
	if flat == nil {
		return nil
	}

	for i, b := range s.stream {
		stream.Copy(flat, i*s.bufferSize, b, 0, s.bufferSize)
	}

	return flat
}

// scatter copies flat back into the stream from frame 0 and zeroes every
// frame past flat's end.
func (s *AudioSignal) scatter(flat *stream.Buffer) {
	n := flat.Len()

	for i, b := range s.stream {
		from := i * s.bufferSize
		copied := 0
		if from < n {
			copied = stream.Copy(b, 0, flat, from, s.bufferSize)
		}
		b.ClearRange(copied, s.bufferSize)
	}
}

// SetSamplerate resamples the stream to rate, rescaling loop points and
// frame bookkeeping proportionally. Unchanged or invalid rates are ignored.
func (s *AudioSignal) SetSamplerate(rate int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.samplerate
	if rate == old {
		return
	}
	if rate <= 0 {
		logx.Warn("audiosignal: invalid samplerate", "samplerate", rate)
		return
	}
	if old <= 0 || len(s.stream) == 0 {
		s.samplerate = rate
		return
	}
	if !s.format.Valid() {
		logx.Warn("audiosignal: resample of unsupported format", "format", s.format)
		return
	}

	rescale := func(v int) int {
		return int(int64(v) * int64(rate) / int64(old))
	}
	s.loopStart = rescale(s.loopStart)
	s.loopEnd = rescale(s.loopEnd)
	s.firstFrame = rescale(s.firstFrame)
	s.lastFrame = rescale(s.lastFrame)
	s.frameCount = rescale(s.frameCount)

	flat := s.flatten()
	resampled := stream.Resample(flat, old, rate)
	stream.Free(flat)
	if resampled == nil {
		return
	}

	frames := resampled.Len()
	s.streamResize((frames + s.bufferSize - 1) / s.bufferSize)
	s.scatter(resampled)
	stream.Free(resampled)

	s.samplerate = rate
}

// SetBufferSize redistributes the stream into buffers of size frames,
// zero padding the last one.
func (s *AudioSignal) SetBufferSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.bufferSize
	if size == old {
		return
	}
	if size <= 0 {
		logx.Warn("audiosignal: invalid buffer size", "buffer_size", size)
		return
	}
	if len(s.stream) == 0 {
		s.bufferSize = size
		return
	}

	flat := s.flatten()
	if flat == nil {
		logx.Warn("audiosignal: buffer size change of unsupported format", "format", s.format)
		return
	}

	total := flat.Len()
	length := (total + size - 1) / size

	cursorFrame := -1
	if s.current >= 0 {
		cursorFrame = s.current * old
	}

	s.releaseFrom(0)
	clear(s.stream)
	s.stream = s.stream[:0]
	s.bufferSize = size

	for range length {
		b := stream.Allocate(size, s.format, s.sliceAlloc())
		if b == nil {
			break
		}
		s.stream = append(s.stream, b)
	}
	s.scatter(flat)
	stream.Free(flat)

	s.current = -1
	if cursorFrame >= 0 && cursorFrame/size < len(s.stream) {
		s.current = cursorFrame / size
	}
}

// SetFormat converts every buffer to format. A signal without a previous
// format just takes the new one.
func (s *AudioSignal) SetFormat(format stream.Format) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if format == s.format {
		return
	}
	if !format.Valid() {
		logx.Warn("audiosignal: unsupported format", "format", format)
		return
	}
	if !s.format.Valid() {
		s.format = format
		s.wordSize = format.WordSize()
		return
	}

	slice := s.sliceAlloc()
	for i, b := range s.stream {
		nb := stream.Allocate(s.bufferSize, format, slice)
		stream.Copy(nb, 0, b, 0, s.bufferSize)
		stream.Release(b, slice)
		s.stream[i] = nb
	}

	s.format = format
	s.wordSize = format.WordSize()
}

// copyFrames copies n frames between two streams that may use different
// buffer sizes and formats. It returns the number of frames copied.
func copyFrames(dst []*stream.Buffer, dstSize, dstFrame int, src []*stream.Buffer, srcSize, srcFrame, n int) int {
	if dstSize <= 0 || srcSize <= 0 {
		return 0
	}

	copied := 0
	for n > 0 {
		di, doff := dstFrame/dstSize, dstFrame%dstSize
		si, soff := srcFrame/srcSize, srcFrame%srcSize
		if di >= len(dst) || si >= len(src) {
			break
		}

		m := min(n, dstSize-doff, srcSize-soff)
		stream.Copy(dst[di], doff, src[si], soff, m)

		dstFrame += m
		srcFrame += m
		copied += m
		n -= m
	}

	return copied
}

// clearFrames zeroes n frames of a stream starting at frame.
func clearFrames(dst []*stream.Buffer, size, frame, n int) {
	for n > 0 {
		i, off := frame/size, frame%size
		if i >= len(dst) {
			return
		}

		m := min(n, size-off)
		dst[i].ClearRange(off, off+m)

		frame += m
		n -= m
	}
}
