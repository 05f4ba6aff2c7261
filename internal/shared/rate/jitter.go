package rate

import (
	"context"
	"go.uber.org/ratelimit"
)

// Pacer blocks the caller until the next operation is allowed.
type Pacer interface {
	Take()
}

// Unlimited never blocks.
type Unlimited struct{}

func (Unlimited) Take() {}

// NewPacer returns a Jitter for a positive limit and Unlimited otherwise.
func NewPacer(ctx context.Context, limit int) Pacer {
	if limit <= 0 {
		return Unlimited{}
	}
	return NewJitter(ctx, limit)
}

// Jitter hands out up to limit tokens per second and buffers ~10% of them as burst.
type Jitter struct {
	ch    chan struct{}
	l     ratelimit.Limiter
	limit int
}

func NewJitter(ctx context.Context, limit int) *Jitter {
	burst := max(limit/10, 1)
	jitter := &Jitter{
		limit: limit,
		ch:    make(chan struct{}, burst),
		l:     ratelimit.New(limit),
	}
	go jitter.provider(ctx)
	return jitter
}

func (j *Jitter) provider(ctx context.Context) {
	defer close(j.ch)
	for {
		j.l.Take()
		select {
		case <-ctx.Done():
			return
		case j.ch <- struct{}{}:
		}
	}
}

// Take waits for a token. After ctx is done it returns immediately.
func (j *Jitter) Take() {
	<-j.ch
}

func (j *Jitter) Chan() <-chan struct{} {
	return j.ch
}

func (j *Jitter) Limit() int {
	return j.limit
}
