package main

import "context"

// withContext forwards values from ch until ch is closed or ctx is done.
// Neither the receive nor the send blocks past cancellation.
func withContext[T any](ctx context.Context, ch <-chan T) <-chan T {
	out := make(chan T, 1)

	go func() {
		defer close(out)
		for {
			select {
			case val, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- val:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
