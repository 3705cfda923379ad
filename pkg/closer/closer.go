// Package closer shuts registered resources down in reverse order of
// registration.
package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const defaultForceTimeout = 2 * time.Second

// Func releases one resource
type Func func(ctx context.Context) error

type entry struct {
	name string
	fn   Func
}

// Closer runs registered Funcs last-in first-out. If ctx expires before all
// of them return, the ones not yet reached are run concurrently under a short
// fresh deadline instead.
type Closer struct {
	mu           sync.Mutex
	entries      []entry
	once         sync.Once
	err          error
	forceTimeout time.Duration
}

// New returns a Closer. A zero forceTimeout uses two seconds.
func New(forceTimeout time.Duration) *Closer {
	if forceTimeout <= 0 {
		forceTimeout = defaultForceTimeout
	}
	return &Closer{forceTimeout: forceTimeout}
}

// Add registers fn under name, which prefixes any error it returns
func (c *Closer) Add(name string, fn Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry{name: name, fn: fn})
}

// Close runs every registered Func once. Later calls return the first result.
func (c *Closer) Close(ctx context.Context) error {
	c.once.Do(func() {
		c.mu.Lock()
		entries := append([]entry(nil), c.entries...)
		c.mu.Unlock()

		c.err = c.close(ctx, entries)
	})
	return c.err
}

func (c *Closer) close(ctx context.Context, entries []entry) error {
	var errs []error

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		done := make(chan error, 1)
		go func() { done <- e.fn(ctx) }()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", e.name, err))
			}
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("%s: %w", e.name, ctx.Err()))
			errs = append(errs, c.force(entries[:i])...)
			return errors.Join(errs...)
		}
	}

	return errors.Join(errs...)
}

func (c *Closer) force(entries []entry) []error {
	ctx, cancel := context.WithTimeout(context.Background(), c.forceTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, e := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := e.fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s (forced): %w", e.name, err))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return errs
}
