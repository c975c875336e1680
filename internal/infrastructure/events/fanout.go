package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ports"
	"github.com/autochef0332/autochef/internal/pkg/metrics"
)

var _ ports.ChangeRecorder = (*Fanout)(nil)

// Sink is a named change recorder.
type Sink struct {
	Name     string
	Recorder ports.ChangeRecorder
}

// Fanout delivers every change to all sinks. A failing sink does not stop the others.
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Record(ctx context.Context, event domain.ChangeEvent) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Recorder.Record(ctx, event); err != nil {
			metrics.ChangeEventsFailedTotal.WithLabelValues(s.Name).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}
