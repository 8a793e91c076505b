package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do_CollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var calls atomic.Int32

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	var shared atomic.Int32
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, wasShared := flight.Do("k", func() (any, error) {
				calls.Add(1)
				time.Sleep(10 * time.Millisecond)
				return 42, nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if v.(int) != 42 {
				t.Errorf("unexpected value: %v", v)
			}
			if wasShared {
				shared.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("fn called %d times, want 1", got)
	}
	if got := shared.Load(); got != workers-1 {
		t.Fatalf("%d callers reported shared result, want %d", got, workers-1)
	}
}

func TestSingleFlight_TryDo_SkipsWhenInFlight(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	release := make(chan struct{})
	running := make(chan struct{})

	go func() {
		_, _, _ = flight.TryDo("cycle", func() (any, error) {
			close(running)
			<-release
			return nil, nil
		})
	}()

	<-running
	_, _, started := flight.TryDo("cycle", func() (any, error) {
		t.Error("overlapping execution must not start")
		return nil, nil
	})
	if started {
		t.Fatal("TryDo started while another call was in flight")
	}
	close(release)
}

func TestSingleFlight_DoRunsAgainAfterCompletion(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var calls atomic.Int32

	for i := 0; i < 3; i++ {
		_, _, _ = flight.Do("k", func() (any, error) {
			calls.Add(1)
			return nil, nil
		})
	}

	if got := calls.Load(); got != 3 {
		t.Fatalf("fn called %d times, want 3", got)
	}
}
