// SPDX-License-Identifier: EPL-2.0

package codec

import "github.com/ik5/notecore/audio"

// NewRegistry returns a registry knowing every decoder of this package
// under "wav", "aiff", "mp3" and "ogg".
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", WAV{})
	reg.Register("aiff", AIFF{})
	reg.Register("mp3", MP3{})
	reg.Register("ogg", Vorbis{})

	return reg
}
