package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Refresh hooks
	r := NoopRefreshHooks{}
	r.OnRefreshStart(ctx, "Notch")
	r.OnRefreshComplete(ctx, "Notch", 20, time.Millisecond, nil)
	r.OnLayoutInfeasible(ctx, "Notch", 84, 80)

	// Queue hooks
	q := NoopQueueHooks{}
	q.OnEnqueue(ctx, "Notch", true, 1)
	q.OnDequeue(ctx, "Notch", time.Second)

	// Store hooks
	s := NoopStoreHooks{}
	s.OnStoreOp(ctx, "redis", "hide", time.Millisecond, nil)
	s.OnStoreRetry(ctx, "redis", "hide", 2, errors.New("connection refused"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Refresh().(NoopRefreshHooks); !ok {
		t.Error("Refresh() should return NoopRefreshHooks by default")
	}
	if _, ok := Queue().(NoopQueueHooks); !ok {
		t.Error("Queue() should return NoopQueueHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	// Set custom hooks
	customRefresh := &testRefreshHooks{}
	SetRefreshHooks(customRefresh)
	if Refresh() != customRefresh {
		t.Error("SetRefreshHooks should set custom hooks")
	}

	customQueue := &testQueueHooks{}
	SetQueueHooks(customQueue)
	if Queue() != customQueue {
		t.Error("SetQueueHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Refresh().(NoopRefreshHooks); !ok {
		t.Error("Reset() should restore NoopRefreshHooks")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Reset() should restore NoopStoreHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testRefreshHooks{}
	SetRefreshHooks(custom)

	// Setting nil should be ignored
	SetRefreshHooks(nil)
	SetQueueHooks(nil)
	SetStoreHooks(nil)

	if Refresh() != custom {
		t.Error("SetRefreshHooks(nil) should be ignored")
	}
	if Queue() == nil || Store() == nil {
		t.Error("nil hooks should never be returned")
	}

	Reset()
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testRefreshHooks{}
	SetRefreshHooks(custom)

	Refresh().OnLayoutInfeasible(context.Background(), "jeb_", 12, 8)
	if custom.infeasible != 1 {
		t.Errorf("infeasible events = %d, want 1", custom.infeasible)
	}
}

// Test implementations
type testRefreshHooks struct {
	NoopRefreshHooks
	infeasible int
}

func (h *testRefreshHooks) OnLayoutInfeasible(context.Context, string, int, int) { h.infeasible++ }

type testQueueHooks struct{ NoopQueueHooks }
type testStoreHooks struct{ NoopStoreHooks }
