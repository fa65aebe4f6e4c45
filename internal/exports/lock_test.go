package exports

import (
	"sync"
	"testing"
	"time"
)

func TestPathLocksExcludeSameKey(t *testing.T) {
	locks := newPathLocks()
	unlock := locks.Lock("Health/2026-03-14.md")

	acquired := make(chan struct{})
	go func() {
		u := locks.Lock("Health/2026-03-14.md")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock on the same key did not block")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Lock never acquired the key")
	}
}

func TestPathLocksIndependentKeys(t *testing.T) {
	locks := newPathLocks()
	unlock := locks.Lock("a.md")
	defer unlock()

	done := make(chan struct{})
	go func() {
		locks.Lock("b.md")()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unrelated key was blocked")
	}
}

func TestPathLocksCleanup(t *testing.T) {
	locks := newPathLocks()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("same.md")()
		}()
	}
	wg.Wait()
	if n := locks.size(); n != 0 {
		t.Fatalf("expected no entries after release, got %d", n)
	}
}
