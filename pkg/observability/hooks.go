// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about tab list refreshes, the resend queue and hidden-player
// store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, which keeps the import
// graph free of cycles.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRefreshHooks(&myRefreshHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Refresh().OnRefreshStart(ctx, viewer)
//	// ... update and render the tab list ...
//	observability.Refresh().OnRefreshComplete(ctx, viewer, slots, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Refresh Hooks
// =============================================================================

// RefreshHooks receives events from tab list refreshes.
type RefreshHooks interface {
	// OnRefreshStart records the start of a refresh for one viewer.
	OnRefreshStart(ctx context.Context, viewer string)

	// OnRefreshComplete records a finished refresh. slots is the number of
	// non-empty slots sent to the viewer.
	OnRefreshComplete(ctx context.Context, viewer string, slots int, duration time.Duration, err error)

	// OnLayoutInfeasible records a list that could not be laid out because
	// its minimum size exceeds the space it was granted.
	OnLayoutInfeasible(ctx context.Context, viewer string, needed, size int)
}

// =============================================================================
// Queue Hooks
// =============================================================================

// QueueHooks receives events from the resend queue.
type QueueHooks interface {
	// OnEnqueue records a viewer queued for resend. front is true for
	// immediate resends. depth is the queue length after the operation.
	OnEnqueue(ctx context.Context, viewer string, front bool, depth int)

	// OnDequeue records a viewer taken from the queue after waiting.
	OnDequeue(ctx context.Context, viewer string, wait time.Duration)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from hidden-player store operations.
type StoreHooks interface {
	// OnStoreOp records one store operation such as "hide" or "hidden".
	OnStoreOp(ctx context.Context, backend, op string, duration time.Duration, err error)

	// OnStoreRetry records a retried operation.
	OnStoreRetry(ctx context.Context, backend, op string, attempt int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRefreshHooks is a no-op implementation of RefreshHooks.
type NoopRefreshHooks struct{}

func (NoopRefreshHooks) OnRefreshStart(context.Context, string)                               {}
func (NoopRefreshHooks) OnRefreshComplete(context.Context, string, int, time.Duration, error) {}
func (NoopRefreshHooks) OnLayoutInfeasible(context.Context, string, int, int)                 {}

// NoopQueueHooks is a no-op implementation of QueueHooks.
type NoopQueueHooks struct{}

func (NoopQueueHooks) OnEnqueue(context.Context, string, bool, int)     {}
func (NoopQueueHooks) OnDequeue(context.Context, string, time.Duration) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreOp(context.Context, string, string, time.Duration, error) {}
func (NoopStoreHooks) OnStoreRetry(context.Context, string, string, int, error)        {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	refreshHooks RefreshHooks = NoopRefreshHooks{}
	queueHooks   QueueHooks   = NoopQueueHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	hooksMu      sync.RWMutex
)

// SetRefreshHooks registers custom refresh hooks.
// This should be called once at application startup before any refresh.
func SetRefreshHooks(h RefreshHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		refreshHooks = h
	}
}

// SetQueueHooks registers custom queue hooks.
// This should be called once at application startup before the refresher runs.
func SetQueueHooks(h QueueHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		queueHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store is opened.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Refresh returns the registered refresh hooks.
func Refresh() RefreshHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return refreshHooks
}

// Queue returns the registered queue hooks.
func Queue() QueueHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return queueHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	refreshHooks = NoopRefreshHooks{}
	queueHooks = NoopQueueHooks{}
	storeHooks = NoopStoreHooks{}
}
