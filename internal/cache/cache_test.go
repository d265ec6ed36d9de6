package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestGetOrCreate(t *testing.T) {
	c := New[string, int]()
	calls := 0
	create := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrCreate("k", create)
		if err != nil || v != 42 {
			t.Fatalf("GetOrCreate() = %d, %v, want 42, nil", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	v, err := c.GetOrCreate("other", func() (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Errorf("GetOrCreate(other) = %d, %v, want 7, nil", v, err)
	}
}

func TestGetOrCreateErrorNotStored(t *testing.T) {
	c := New[int, string]()
	errBoom := errors.New("boom")

	if _, err := c.GetOrCreate(1, func() (string, error) { return "", errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("GetOrCreate() error = %v, want %v", err, errBoom)
	}
	calls := 0
	v, err := c.GetOrCreate(1, func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil || v != "ok" {
		t.Errorf("retry = %q, %v, want ok, nil", v, err)
	}
	if calls != 1 {
		t.Errorf("retry create called %d times, want 1", calls)
	}
}

func TestConcurrentCreateOnce(t *testing.T) {
	c := New[int, int]()
	var calls atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.GetOrCreate(7, func() (int, error) {
				calls.Add(1)
				return 7, nil
			})
		}()
	}
	wg.Wait()
	if n := calls.Load(); n != 1 {
		t.Errorf("create called %d times, want 1", n)
	}
}
