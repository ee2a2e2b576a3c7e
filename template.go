// SPDX-License-Identifier: EPL-2.0

package notecore

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/notecore/audio"
	"github.com/ik5/notecore/audiosignal"
)

var ErrNoSource = errors.New("notecore: no source")

// ImportTemplate builds a template signal from src. The source is mixed
// down to mono and resampled to the signal's rate, which opts decide
// (soundcard defaults otherwise). src is not closed.
func ImportTemplate(src audio.Source, opts ...audiosignal.Option) (*audiosignal.AudioSignal, error) {
	if src == nil {
		return nil, ErrNoSource
	}

	opts = append(opts, audiosignal.WithFlags(audiosignal.FlagTemplate))
	tmpl := audiosignal.New(opts...)

	if err := audiosignal.ImportSource(tmpl, src); err != nil {
		tmpl.Unref()
		return nil, fmt.Errorf("importing template: %w", err)
	}

	return tmpl, nil
}

// DecodeTemplate decodes r with the registry's decoder for format and
// imports the result as a template.
func DecodeTemplate(reg *audio.Registry, format string, r io.Reader, opts ...audiosignal.Option) (*audiosignal.AudioSignal, error) {
	src, err := reg.Decode(format, r)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return ImportTemplate(src, opts...)
}
