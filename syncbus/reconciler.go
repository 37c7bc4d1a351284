package syncbus

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/trezcool/darasa/core"
)

// Reconciler invokes a single reconcile function from three trigger sources:
// same-instance bus events, cross-instance broadcasts and a periodic poll.
// Broadcasts are an optimization for responsiveness; the poll is the liveness
// guarantee. It owns its timer and subscriptions: Stop tears everything down
// so no orphaned timers outlive the consuming view.
type Reconciler struct {
	interval  time.Duration
	topics    map[string]struct{}
	reconcile func(evt *core.Event) // nil evt on poll ticks

	mu      sync.Mutex
	running bool
	cron    *cron.Cron
	unsubs  []func()
}

func NewReconciler(interval time.Duration, topics []string, reconcile func(evt *core.Event)) *Reconciler {
	set := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		set[t] = struct{}{}
	}
	return &Reconciler{interval: interval, topics: set, reconcile: reconcile}
}

// Start subscribes to the bus and broadcast (either may be nil) and starts the
// poll. Calling Start on a running Reconciler is a no-op.
func (r *Reconciler) Start(bus *Bus, broadcast Broadcast) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return nil
	}

	handler := func(evt core.Event) {
		r.reconcile(&evt)
	}

	if bus != nil {
		for topic := range r.topics {
			r.unsubs = append(r.unsubs, bus.Subscribe(topic, handler))
		}
	}
	if broadcast != nil {
		stop := broadcast.Listen(func(evt core.Event) {
			if _, ok := r.topics[evt.Topic]; ok {
				handler(evt)
			}
		})
		r.unsubs = append(r.unsubs, stop)
	}

	// the poll re-fetches unconditionally, whether or not broadcasts arrived
	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", r.interval), func() { r.reconcile(nil) }); err != nil {
		for _, unsub := range r.unsubs {
			unsub()
		}
		r.unsubs = nil
		return err
	}
	c.Start()

	r.cron = c
	r.running = true
	return nil
}

// Stop cancels the poll and drops all subscriptions.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done() // wait for a running poll job to finish
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
	r.cron = nil
	r.running = false
}

// Running reports whether the reconciler currently owns a timer.
func (r *Reconciler) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
