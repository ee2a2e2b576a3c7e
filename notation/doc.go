// SPDX-License-Identifier: EPL-2.0

// Package notation holds the symbolic note data the scheduler reads.
//
// Notes live in Notation buckets. A bucket belongs to one audio channel and
// covers DefaultOffset ticks starting at its Timestamp, so the scheduler
// only ever scans the bucket near the playback position:
//
//	ts := notation.TimestampFor(offset)
//	if bucket := notation.FindNear(list, audioChannel, ts); bucket != nil {
//	    notes := bucket.FindRange256th(lower, lower+80)
//	}
//
// Every Note and Notation guards its own state; lists returned are
// snapshots.
package notation
