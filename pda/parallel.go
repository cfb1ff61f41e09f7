package pda

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"solpda/address"
)

// FindParallel is Find spread over workers goroutines. Candidates are handed
// out in descending order and the largest off-curve bump wins, so the result
// is always the one Find returns. If workers is 0 it defaults to the number
// of CPU cores.
func FindParallel(ctx context.Context, program address.Address, seed []byte, workers int) (Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 {
		return Find(program, seed)
	}

	var (
		next atomic.Int32 // next candidate to hand out
		best atomic.Int32 // largest off-curve bump seen, -1 if none
		wg   sync.WaitGroup
	)
	next.Store(MaxBump)
	best.Store(-1)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				bump := next.Add(-1) + 1
				// Anything below the current best cannot win.
				if bump < 0 || bump < best.Load() {
					return
				}
				if IsOnCurve(HashWithBump(seed, uint8(bump), program)) {
					continue
				}
				for {
					cur := best.Load()
					if bump <= cur || best.CompareAndSwap(cur, bump) {
						break
					}
				}
				return
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	b := best.Load()
	if b < 0 {
		return Result{}, fmt.Errorf("%w: no viable bump seed", ErrNotFound)
	}
	return Result{
		Address: HashWithBump(seed, uint8(b), program),
		Bump:    uint8(b),
		HasBump: true,
	}, nil
}
