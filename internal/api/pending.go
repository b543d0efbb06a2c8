package api

import "context"

// Pending is the eventual result of a call started with Go.
type Pending[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go runs fn on its own goroutine and returns immediately.
//
//	me := api.Go(ctx, client.GetMe)
//	profile := api.Go(ctx, client.GetProfile)
//	user, err := me.Await(ctx)
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Pending[T] {
	p := &Pending[T]{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.val, p.err = fn(ctx)
	}()
	return p
}

// Await blocks until the call finishes or ctx is done. Abandoning a Pending
// does not cancel the call; cancel the context passed to Go for that.
func (p *Pending[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.val, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed when the call finishes.
func (p *Pending[T]) Done() <-chan struct{} { return p.done }
