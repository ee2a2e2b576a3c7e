// SPDX-License-Identifier: EPL-2.0

package machine

import (
	"slices"
	"sync"

	"github.com/ik5/notecore/recycling"
)

// Channel is one pad of one audio channel. Its recycling chain holds the
// signals played on it.
type Channel struct {
	mu sync.Mutex

	pad          int
	audioChannel int
	recyclings   []*recycling.Recycling
}

// NewChannel returns a channel with an empty chain.
func NewChannel(pad, audioChannel int) *Channel {
	return &Channel{
		pad:          pad,
		audioChannel: audioChannel,
	}
}

func (c *Channel) Pad() int {
	return c.pad
}

func (c *Channel) AudioChannel() int {
	return c.audioChannel
}

// AddRecycling appends r to the chain.
func (c *Channel) AddRecycling(r *recycling.Recycling) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.recyclings = append(c.recyclings, r)
}

// Recyclings returns a snapshot of the chain, first to last.
func (c *Channel) Recyclings() []*recycling.Recycling {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.recyclings)
}
