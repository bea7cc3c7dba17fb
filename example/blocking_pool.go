package main

import "context"

// BlockingPool hands out a fixed set of objects. Get blocks while every
// object is checked out.
type BlockingPool[T any] struct {
	pool chan T
}

func NewBlockingPool[T any](capacity int) BlockingPool[T] {
	return BlockingPool[T]{pool: make(chan T, capacity)}
}

// Get waits for a free object or for ctx to be done.
func (p *BlockingPool[T]) Get(ctx context.Context) (T, error) {
	select {
	case obj := <-p.pool:
		return obj, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (p *BlockingPool[T]) Put(obj T) { p.pool <- obj }

// newTokenPool returns a pool of n interchangeable tokens, used to bound how
// many frame pairs are in flight at once.
func newTokenPool(n int) BlockingPool[struct{}] {
	p := NewBlockingPool[struct{}](n)
	for range n {
		p.Put(struct{}{})
	}
	return p
}
