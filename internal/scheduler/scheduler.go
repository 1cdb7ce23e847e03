// Package scheduler computes stagger delays so that timers of different
// lengths finish at the same instant.
//
// Everything here is pure arithmetic over durations; the lifecycle
// controller supplies the inputs and owns the resulting activations.
package scheduler

import "time"

// Entry is one timer's remaining countdown.
type Entry struct {
	ID        string
	Remaining time.Duration
}

// Delay is the wait before one timer's countdown may begin.
type Delay struct {
	ID    string
	Delay time.Duration
}

// Plan computes the stagger delay for every entry, preserving input order.
// The longest remaining countdown gets zero delay; shorter ones wait
// max(remaining) - remaining so all reach zero together. Negative remaining
// values are treated as zero and a delay is never negative.
func Plan(entries []Entry) []Delay {
	if len(entries) == 0 {
		return nil
	}

	var longest time.Duration
	for _, e := range entries {
		longest = max(longest, clamp(e.Remaining))
	}

	out := make([]Delay, len(entries))
	for i, e := range entries {
		out[i] = Delay{
			ID:    e.ID,
			Delay: clamp(longest - clamp(e.Remaining)),
		}
	}
	return out
}

// Stagger is Plan keyed by timer id.
func Stagger(remaining map[string]time.Duration) map[string]time.Duration {
	if len(remaining) == 0 {
		return map[string]time.Duration{}
	}

	entries := make([]Entry, 0, len(remaining))
	for id, r := range remaining {
		entries = append(entries, Entry{ID: id, Remaining: r})
	}

	out := make(map[string]time.Duration, len(entries))
	for _, d := range Plan(entries) {
		out[d.ID] = d.Delay
	}
	return out
}

// Residual returns what is left of an armed delay after elapsed has passed.
// A target start that already went by yields zero: start immediately.
func Residual(delay, elapsed time.Duration) time.Duration {
	return clamp(delay - clamp(elapsed))
}

func clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
