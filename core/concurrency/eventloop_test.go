package concurrency

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/hioload-spsc/api"
)

type collector struct {
	mu    sync.Mutex
	items []int
}

func (c *collector) Handle(v int) {
	c.mu.Lock()
	c.items = append(c.items, v)
	c.mu.Unlock()
}

func (c *collector) snapshot() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.items...)
}

func startLoop(t *testing.T, el *EventLoop[int]) chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- el.Run() }()
	deadline := time.Now().Add(time.Second)
	for el.Stats().StartedAt.IsZero() {
		if time.Now().After(deadline) {
			t.Fatal("event loop did not start")
		}
		time.Sleep(time.Millisecond)
	}
	return errCh
}

func TestEventLoop_DeliversInOrder(t *testing.T) {
	el, err := NewEventLoop[int](8, 64)
	if err != nil {
		t.Fatal(err)
	}
	c := &collector{}
	el.RegisterHandler(c)
	errCh := startLoop(t, el)

	const total = 5000
	for i := 0; i < total; i++ {
		for !el.Post(i) {
			time.Sleep(time.Microsecond)
		}
	}
	el.Stop()
	if err := <-errCh; err != nil {
		t.Fatalf("Run returned %v", err)
	}
	got := c.snapshot()
	if len(got) != total {
		t.Fatalf("handled %d, want %d", len(got), total)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("item %d = %d", i, v)
		}
	}
	st := el.Stats()
	if st.Handled != total || st.Pending != 0 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestEventLoop_StopDrainsPending(t *testing.T) {
	el, _ := NewEventLoop[int](4, 16)
	c := &collector{}
	el.RegisterHandler(c)
	for i := 0; i < 10; i++ {
		if !el.Post(i) {
			t.Fatalf("post %d failed", i)
		}
	}
	el.Stop()
	if err := el.Run(); !errors.Is(err, ErrLoopStopped) {
		t.Fatalf("expected ErrLoopStopped, got %v", err)
	}
	if n := len(c.snapshot()); n != 10 {
		t.Fatalf("drained %d of 10 items", n)
	}
	if el.Post(99) {
		t.Fatal("post accepted after stop")
	}
	if el.Stats().Rejected != 1 {
		t.Fatalf("rejected counter %d", el.Stats().Rejected)
	}
}

func TestEventLoop_RecoversHandlerPanic(t *testing.T) {
	el, _ := NewEventLoop[int](4, 16)
	var seen atomic.Int32
	el.RegisterHandler(HandlerFunc[int](func(v int) {
		if v == 1 {
			panic("bad item")
		}
		seen.Add(1)
	}))
	errCh := startLoop(t, el)
	for i := 0; i < 3; i++ {
		el.Post(i)
	}
	el.Stop()
	<-errCh
	if seen.Load() != 2 {
		t.Fatalf("handler saw %d items, want 2", seen.Load())
	}
	if el.Stats().Panics != 1 {
		t.Fatalf("panics %d, want 1", el.Stats().Panics)
	}
}

func TestEventLoop_UnregisterHandler(t *testing.T) {
	el, _ := NewEventLoop[int](4, 16)
	a, b := &collector{}, &collector{}
	el.RegisterHandler(a)
	el.RegisterHandler(b)
	el.UnregisterHandler(a)
	el.Post(7)
	el.Stop()
	_ = el.Run()
	if len(a.snapshot()) != 0 {
		t.Fatal("unregistered handler was called")
	}
	if got := b.snapshot(); len(got) != 1 || got[0] != 7 {
		t.Fatalf("remaining handler saw %v", got)
	}
}

func TestEventLoop_RunTwice(t *testing.T) {
	el, _ := NewEventLoop[int](0, 0)
	errCh := startLoop(t, el)
	if err := el.Run(); !errors.Is(err, api.ErrLoopAlreadyRunning) {
		t.Fatalf("expected ErrLoopAlreadyRunning, got %v", err)
	}
	el.Stop()
	<-errCh
	el.Stop()
}

func TestEventLoop_QueueSizeRounded(t *testing.T) {
	el, err := NewEventLoop[int](1, 100, WithMaxBackoff(50*time.Microsecond))
	if err != nil {
		t.Fatal(err)
	}
	if el.Ring().BufferSize() != 128 {
		t.Fatalf("buffer size %d, want 128", el.Ring().BufferSize())
	}
	if el.opts.maxBackoff != 50*time.Microsecond {
		t.Fatalf("max backoff %v", el.opts.maxBackoff)
	}
}

func TestEventLoop_PinErrorReported(t *testing.T) {
	var pinErr atomic.Value
	el, err := NewEventLoop[int](4, 16, WithPinnedCPU(1<<20, func(err error) { pinErr.Store(err) }))
	if err != nil {
		t.Fatal(err)
	}
	c := &collector{}
	el.RegisterHandler(c)
	errCh := startLoop(t, el)
	for !el.Post(7) {
		time.Sleep(time.Microsecond)
	}
	el.Stop()
	if err := <-errCh; err != nil {
		t.Fatalf("Run returned %v", err)
	}
	got, _ := pinErr.Load().(error)
	if !errors.Is(got, api.ErrInvalidArgument) && !errors.Is(got, api.ErrAffinityNotSupported) {
		t.Fatalf("pin error = %v, want ErrInvalidArgument", got)
	}
	if items := c.snapshot(); len(items) != 1 || items[0] != 7 {
		t.Fatalf("handled %v", items)
	}
}

// TestEventLoop_StopRacingRunDrains stops a loop whose Run goroutine may not
// have started yet; every posted item must be handled by the time Stop
// returns, whichever side claims the loop.
func TestEventLoop_StopRacingRunDrains(t *testing.T) {
	for iter := 0; iter < 200; iter++ {
		el, err := NewEventLoop[int](4, 16)
		if err != nil {
			t.Fatal(err)
		}
		c := &collector{}
		el.RegisterHandler(c)
		for i := 0; i < 5; i++ {
			if !el.Post(i) {
				t.Fatalf("post %d failed", i)
			}
		}
		errCh := make(chan error, 1)
		go func() { errCh <- el.Run() }()
		el.Stop()
		if got := c.snapshot(); len(got) != 5 {
			t.Fatalf("iteration %d: Stop returned with %d of 5 items handled", iter, len(got))
		}
		if err := <-errCh; err != nil && !errors.Is(err, ErrLoopStopped) {
			t.Fatalf("iteration %d: Run returned %v", iter, err)
		}
		el.Stop()
	}
}
