// SPDX-License-Identifier: EPL-2.0

// Package processor schedules notes onto the period clock of a soundcard.
//
// A NotationAudioProcessor keeps two sets of counters. The running period
// reads the active set while CounterChange prepares the next one, which
// RunInter publishes at the top of the following period. Within a period
// scheduled notes are keyed first, then live MIDI input is recorded, then
// sustained notes grow:
//
//	p := processor.New(audio, 0, recall.New(recall.ScopeNotation, nil))
//	p.RunInitPre()
//	for range periods {
//		p.RunInter()
//	}
//
// Every keyed note gets one new AudioSignal per recycling of the pad it
// maps to. When the recycling carries a template the signal is fed from it
// and, for held notes, grown by one period per cycle until release.
package processor
