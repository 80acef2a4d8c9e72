package device

import (
	"context"
	"errors"
	"io"
	"time"
)

// Replay feeds every record of r into p and returns how many were sent.
// With paced set, records are sent at their logged offsets.
func Replay(ctx context.Context, r *Reader, p *Pump, paced bool) (int, error) {
	start := time.Now()
	n := 0
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}

		if paced {
			if wait := rec.At - time.Since(start); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					timer.Stop()
					return n, ctx.Err()
				case <-timer.C:
				}
			}
		}

		if err := p.Send(rec.Event); err != nil {
			return n, err
		}
		n++
	}
}
