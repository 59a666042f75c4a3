package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlightRunsFunctionOnce(t *testing.T) {
	var g SingleFlight
	var executions atomic.Int32
	var shared atomic.Int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, dedup := g.Do("event/42/statistics", func() (any, error) {
				executions.Add(1)
				time.Sleep(20 * time.Millisecond)
				return "payload", nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if val != "payload" {
				t.Errorf("unexpected value: %v", val)
			}
			if dedup {
				shared.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("function ran %d times, want 1", got)
	}
	if got := shared.Load(); got != workers-1 {
		t.Fatalf("%d callers shared the result, want %d", got, workers-1)
	}
}

func TestSingleFlightSequentialCallsRunSeparately(t *testing.T) {
	var g SingleFlight
	var executions int

	for i := 0; i < 3; i++ {
		_, err, dedup := g.Do("rounds", func() (any, error) {
			executions++
			return nil, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dedup {
			t.Fatalf("sequential call %d reported a shared result", i)
		}
	}

	if executions != 3 {
		t.Fatalf("function ran %d times, want 3", executions)
	}
}
