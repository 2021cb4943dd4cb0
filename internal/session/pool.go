package session

import (
	"context"
	"sync"
	"sync/atomic"
)

// ConvertConcurrent converts every item using a fixed pool of worker
// goroutines. Items share no mutable state, so they may run in
// parallel freely; results land on the items exactly as with
// ConvertAll. workers below 2 falls back to sequential conversion.
func (s *Session) ConvertConcurrent(ctx context.Context, workers int) (failed int) {
	items := s.Items()
	if workers <= 1 || len(items) <= 1 {
		return s.ConvertAll(ctx)
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan *Item)
	var wg sync.WaitGroup
	var failures atomic.Int64

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range jobs {
				if s.convert(it); it.Err != nil {
					failures.Add(1)
				}
			}
		}()
	}

	for _, it := range items {
		if ctx.Err() != nil {
			break
		}
		jobs <- it
	}
	close(jobs)
	wg.Wait()

	return int(failures.Load())
}
