package clock_test

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/saloonhub/saloonstore/utils/clock"
)

func TestFake(t *testing.T) {
	c := clock.NewFake(100, 10)

	if c.Peek() != 100 {
		t.Fatalf("expected peek to be 100, got %d", c.Peek())
	}

	readings := []uint64{c.Now(), c.Now(), c.Now()}

	if diff := cmp.Diff([]uint64{100, 110, 120}, readings); diff != "" {
		t.Fatal(diff)
	}
}

func TestSystemNeverDecreases(t *testing.T) {
	c := clock.NewSystem()

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			last := c.Now()

			for j := 0; j < 1000; j++ {
				now := c.Now()

				if now < last {
					t.Errorf("clock went backwards: %d < %d", now, last)

					return
				}

				last = now
			}
		}()
	}

	wg.Wait()
}
