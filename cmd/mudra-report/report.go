package main

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/mudra/internal/store"
)

// Report aggregates one session's event log.
type Report struct {
	SessionID string
	Start     time.Time
	End       time.Time
	Total     int

	// Intents holds per-intent event counts, most frequent first.
	Intents []IntentCount

	// Timeline holds per-minute event counts from the first to the
	// last event, including empty minutes.
	Timeline []TimelineBucket

	// Confidence summarizes the emitted intent confidences.
	Confidence Summary

	// Gaps summarizes the seconds between consecutive events.
	Gaps Summary
}

// IntentCount is one intent type's share of the session.
type IntentCount struct {
	Intent string
	Count  int
}

// TimelineBucket is one minute of session activity.
type TimelineBucket struct {
	Minute time.Time
	Count  int
}

// Summary holds distribution statistics for one series.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Median float64
	P90    float64
}

// buildReport aggregates the event log for one session. Events must be
// in chronological order.
func buildReport(sessionID string, events []store.Event) *Report {
	r := &Report{
		SessionID: sessionID,
		Total:     len(events),
	}
	if len(events) == 0 {
		return r
	}

	r.Start = events[0].CreatedAt
	r.End = events[len(events)-1].CreatedAt

	counts := make(map[string]int)
	confidences := make([]float64, 0, len(events))
	gaps := make([]float64, 0, len(events)-1)
	for i, ev := range events {
		counts[ev.Intent]++
		confidences = append(confidences, ev.Confidence)
		if i > 0 {
			gaps = append(gaps, ev.CreatedAt.Sub(events[i-1].CreatedAt).Seconds())
		}
	}

	for intent, count := range counts {
		r.Intents = append(r.Intents, IntentCount{Intent: intent, Count: count})
	}
	sort.Slice(r.Intents, func(i, j int) bool {
		if r.Intents[i].Count != r.Intents[j].Count {
			return r.Intents[i].Count > r.Intents[j].Count
		}
		return r.Intents[i].Intent < r.Intents[j].Intent
	})

	r.Timeline = bucketByMinute(events)
	r.Confidence = summarize(confidences)
	r.Gaps = summarize(gaps)
	return r
}

// bucketByMinute counts events per minute, keeping empty minutes so
// the timeline has no holes.
func bucketByMinute(events []store.Event) []TimelineBucket {
	first := events[0].CreatedAt.Truncate(time.Minute)
	last := events[len(events)-1].CreatedAt.Truncate(time.Minute)

	counts := make(map[time.Time]int)
	for _, ev := range events {
		counts[ev.CreatedAt.Truncate(time.Minute)]++
	}

	var buckets []TimelineBucket
	for m := first; !m.After(last); m = m.Add(time.Minute) {
		buckets = append(buckets, TimelineBucket{Minute: m, Count: counts[m]})
	}
	return buckets
}

// summarize computes distribution statistics for xs. The slice is
// sorted in place for the quantiles.
func summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}

	s := Summary{
		N:    len(xs),
		Mean: stat.Mean(xs, nil),
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}

	sort.Float64s(xs)
	s.Median = stat.Quantile(0.5, stat.Empirical, xs, nil)
	s.P90 = stat.Quantile(0.9, stat.Empirical, xs, nil)
	return s
}
