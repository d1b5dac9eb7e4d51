package dashboard

import "context"

// Sink renders a finished view somewhere a human will read it.
type Sink interface {
	Render(ctx context.Context, v *View) error
}

// MultiSink renders to every sink in order and returns the first error.
type MultiSink []Sink

func (m MultiSink) Render(ctx context.Context, v *View) error {
	for _, s := range m {
		if err := s.Render(ctx, v); err != nil {
			return err
		}
	}
	return nil
}
