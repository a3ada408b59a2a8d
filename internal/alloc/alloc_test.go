package alloc

import (
	"errors"
	"testing"

	"github.com/vela-systems/objpool/spi"
)

type widget struct {
	value     int
	resets    int
	destroyed bool
}

func (w *widget) Reset(args int) { w.value = args; w.resets++ }
func (w *widget) Build(args int) { w.value = args }
func (w *widget) Destroy()       { w.destroyed = true }

type widgetAllocator struct {
	failNext  bool
	allocated int
	freed     int
}

func (a *widgetAllocator) Allocate() (*widget, error) {
	if a.failNext {
		return nil, errors.New("out of memory")
	}
	a.allocated++
	return &widget{}, nil
}

func (a *widgetAllocator) Deallocate(w *widget) {
	a.freed++
}

var _ spi.Allocator[widget] = (*widgetAllocator)(nil)

func TestConstructBuildsWithArgs(t *testing.T) {
	a := New[widget, int](&widgetAllocator{})
	w, err := a.Construct(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.value != 7 {
		t.Fatalf("expected Build(7) to set value, got %d", w.value)
	}
}

func TestConstructWrapsAllocationFailure(t *testing.T) {
	a := New[widget, int](&widgetAllocator{failNext: true})
	_, err := a.Construct(1)
	if err == nil {
		t.Fatal("expected error from failing allocator")
	}
}

func TestResetPrefersResetterOverBuilder(t *testing.T) {
	a := New[widget, int](&widgetAllocator{})
	w := &widget{value: 1}
	a.Reset(w, 99)
	if w.value != 99 {
		t.Fatalf("expected reset to update value, got %d", w.value)
	}
	if w.resets != 1 {
		t.Fatalf("expected Resetter to be used instead of Builder, got %d resets", w.resets)
	}
}

func TestDestroyRunsDestroyerAndDeallocates(t *testing.T) {
	alloc := &widgetAllocator{}
	a := New[widget, int](alloc)
	w := &widget{}
	a.Destroy(w)
	if !w.destroyed {
		t.Fatal("expected Destroy to have been called")
	}
	if alloc.freed != 1 {
		t.Fatalf("expected deallocate called once, got %d", alloc.freed)
	}
}

type panickyWidget struct{ freed *bool }

func (p *panickyWidget) Destroy() { panic("boom") }

func TestDestroySwallowsPanicButStillDeallocates(t *testing.T) {
	freed := false
	var allocCalls int
	a := New[panickyWidget, struct{}](recordingAllocator{&freed, &allocCalls})
	w := &panickyWidget{}
	a.Destroy(w)
	if !freed {
		t.Fatal("expected deallocate to run even though Destroy panicked")
	}
}

type recordingAllocator struct {
	freed     *bool
	allocated *int
}

func (r recordingAllocator) Allocate() (*panickyWidget, error) {
	*r.allocated++
	return &panickyWidget{}, nil
}

func (r recordingAllocator) Deallocate(*panickyWidget) {
	*r.freed = true
}

type panickyBuilder struct{}

func (p *panickyBuilder) Build(int) { panic("build boom") }

type countingAllocator struct {
	freed *int
}

func (a countingAllocator) Allocate() (*panickyBuilder, error) {
	return &panickyBuilder{}, nil
}

func (a countingAllocator) Deallocate(*panickyBuilder) {
	*a.freed++
}

func TestConstructDeallocatesAndRethrowsOnBuildPanic(t *testing.T) {
	freed := 0
	a := New[panickyBuilder, int](countingAllocator{&freed})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Construct to rethrow the Build panic")
		}
		if freed != 1 {
			t.Fatalf("expected the just-allocated block to be deallocated exactly once, got %d", freed)
		}
	}()
	_, _ = a.Construct(1)
}

type panickyResetter struct{ value int }

func (p *panickyResetter) Reset(int) { panic("reset boom") }

func TestResetSwallowsPanic(t *testing.T) {
	a := New[panickyResetter, int](nil)
	w := &panickyResetter{}
	a.Reset(w, 5) // must not panic
}
