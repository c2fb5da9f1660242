// Package sink delivers finished reports to downstream consumers.
package sink

import (
	"context"
	"log"

	"coldstore/internal/models"
)

// Sink receives every report produced by the dashboard service
type Sink interface {
	Name() string
	Publish(ctx context.Context, report *models.Report) error
}

// Fanout publishes a report to several sinks. A failing sink is logged and
// does not stop delivery to the others.
type Fanout struct {
	sinks []Sink
}

// NewFanout creates a fan-out over the given sinks, skipping nil entries
func NewFanout(sinks ...Sink) *Fanout {
	f := &Fanout{}
	for _, s := range sinks {
		f.Add(s)
	}
	return f
}

// Add registers another sink
func (f *Fanout) Add(s Sink) {
	if s != nil {
		f.sinks = append(f.sinks, s)
	}
}

// Len returns the number of registered sinks
func (f *Fanout) Len() int {
	return len(f.sinks)
}

// Name implements Sink
func (f *Fanout) Name() string {
	return "fanout"
}

// Publish implements Sink. It returns the first error encountered.
func (f *Fanout) Publish(ctx context.Context, report *models.Report) error {
	var first error
	for _, s := range f.sinks {
		if err := s.Publish(ctx, report); err != nil {
			log.Printf("Error publishing report %s to %s: %v", report.ID, s.Name(), err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
