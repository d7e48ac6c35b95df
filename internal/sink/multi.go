package sink

import (
	"context"
	"errors"

	"github.com/rankscope/rankscope/internal/model"
)

// MultiSink fans every row out to all configured sinks. The first write
// failure aborts the write: every sink must hold the full row set.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines sinks. A single sink is returned unwrapped.
func NewMultiSink(sinks ...Sink) Sink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Write(ctx context.Context, row *model.Row) error {
	for _, s := range m.sinks {
		if err := s.Write(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
