package sim

import "sync"

// parallelFor splits [0, n) into one contiguous chunk per worker and runs fn
// for each, passing the worker index so callers can keep worker-local
// accumulators.
func parallelFor(n, workers int, fn func(worker, start, end int)) {
	if workers <= 1 || n <= 1 {
		fn(0, 0, n)
		return
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	// ceil chunking can exhaust the range before the last worker
	var wg sync.WaitGroup
	for g := 0; g < workers; g++ {
		start := g * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(worker, s, e int) {
			defer wg.Done()
			fn(worker, s, e)
		}(g, start, end)
	}
	wg.Wait()
}
