//go:build spscdebug

package concurrency

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-spsc/api"
)

func TestSideGuard_DetectsReentry(t *testing.T) {
	var g sideGuard
	g.enter("producer")
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, api.ErrConcurrentMisuse) {
			t.Fatalf("expected misuse panic, got %v", r)
		}
		g.exit()
	}()
	g.enter("producer")
}

func TestSideGuard_ReleasedAfterOps(t *testing.T) {
	r := MustNew[int](4)
	r.TryPush(1)
	r.TryPop()
	r.TryPushBatch([]int{1, 2})
	r.TryPopBatch(make([]int, 2))
	r.TryPush(3)
	if r.producer.busy.Load() != 0 || r.consumer.busy.Load() != 0 {
		t.Fatal("guard left busy after operations")
	}
	if !guardEnabled {
		t.Fatal("debug tag build without guard")
	}
}
