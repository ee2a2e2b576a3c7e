// SPDX-License-Identifier: EPL-2.0

package codec

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrNotAiffFile          = errors.New("not an AIFF file")
	// ErrUnsupportedBitDepth is returned for integer PCM that is not 8, 16,
	// 24 or 32 bit.
	ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")
)
