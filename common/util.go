package common

import (
	"errors"
	"sync"
)

// RunParallel runs every func in its own goroutine and joins their errors.
// The count is the number of funcs that failed.
func RunParallel(funcs ...func() error) (error, int) {
	var wg sync.WaitGroup
	errs := make([]error, len(funcs))
	for i, fn := range funcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = fn()
		}()
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	return errors.Join(errs...), failed
}
