// Package feed turns remote change notifications, or their absence, into
// reliable local refresh triggers. It prefers the store's native
// subscription; if the ack never arrives or the transport degrades, it
// engages a bus listener plus an unconditional polling ticker. Once engaged,
// the fallback is never disabled: a transport that failed silently once
// gives no trustworthy recovery signal.
package feed

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sahanw/restopos/internal/bus"
	"github.com/sahanw/restopos/internal/store"
)

type Config struct {
	Table        string
	AckTimeout   time.Duration
	PollInterval time.Duration

	// BusEvents trigger a re-fetch while degraded. SettleEvents additionally
	// wait SettleDelay first so a remote write can land before the re-read.
	BusEvents    []bus.EventKind
	SettleEvents []bus.EventKind
	SettleDelay  time.Duration
}

// RefreshFunc re-fetches the full authoritative collection and hands it to
// the feed's consumer. The feed never exposes deltas.
type RefreshFunc func(ctx context.Context) error

type Feed struct {
	cfg      Config
	notifier store.Notifier
	bus      *bus.Bus
	refresh  RefreshFunc
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	degraded bool
	unsubs   []func()

	refreshMu sync.Mutex

	closeOnce sync.Once
}

func New(cfg Config, notifier store.Notifier, b *bus.Bus, refresh RefreshFunc, log *zap.Logger) *Feed {
	ctx, cancel := context.WithCancel(context.Background())
	return &Feed{
		cfg:      cfg,
		notifier: notifier,
		bus:      b,
		refresh:  refresh,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start opens the subscription and begins delivering refreshes. It returns
// immediately; all work happens on feed-owned goroutines.
func (f *Feed) Start() {
	f.wg.Add(1)
	go f.run()
}

// Close tears down the native subscription, bus listeners, and timers.
// Idempotent and safe to call concurrently.
func (f *Feed) Close() {
	f.closeOnce.Do(func() {
		f.cancel()

		f.mu.Lock()
		unsubs := f.unsubs
		f.unsubs = nil
		f.mu.Unlock()
		for _, unsub := range unsubs {
			unsub()
		}
	})
	f.wg.Wait()
}

func (f *Feed) run() {
	defer f.wg.Done()

	sub := f.notifier.Subscribe(f.ctx, f.cfg.Table)
	defer sub.Close()

	ack := time.NewTimer(f.cfg.AckTimeout)
	defer ack.Stop()

	select {
	case <-f.ctx.Done():
		return
	case state := <-sub.States:
		if state != store.StateSubscribed {
			f.log.Warn("change subscription rejected, engaging fallback",
				zap.String("table", f.cfg.Table), zap.String("state", state.String()))
			f.engageFallback()
			return
		}
		f.log.Info("change subscription live", zap.String("table", f.cfg.Table))
	case <-ack.C:
		f.log.Warn("change subscription ack timed out, engaging fallback",
			zap.String("table", f.cfg.Table))
		f.engageFallback()
		return
	}

	changes := sub.Changes
	for {
		select {
		case <-f.ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				f.log.Warn("change stream closed mid-session, engaging fallback",
					zap.String("table", f.cfg.Table))
				f.engageFallback()
				changes = nil
				continue
			}
			f.doRefresh()
		case state := <-sub.States:
			if state != store.StateSubscribed {
				f.log.Warn("change subscription degraded, engaging fallback",
					zap.String("table", f.cfg.Table), zap.String("state", state.String()))
				f.engageFallback()
			}
		}
	}
}

// engageFallback wires the dual redundant mechanisms: bus-driven refreshes
// for same-process writers and an unconditional poll for everything else.
// Runs at most once per feed.
func (f *Feed) engageFallback() {
	f.mu.Lock()
	if f.degraded {
		f.mu.Unlock()
		return
	}
	// Close may have already drained f.unsubs; registering listeners now
	// would orphan them.
	if f.ctx.Err() != nil {
		f.mu.Unlock()
		return
	}
	f.degraded = true

	settle := make(map[bus.EventKind]bool, len(f.cfg.SettleEvents))
	for _, kind := range f.cfg.SettleEvents {
		settle[kind] = true
	}
	for _, kind := range f.cfg.BusEvents {
		delay := time.Duration(0)
		if settle[kind] {
			delay = f.cfg.SettleDelay
		}
		unsub := f.bus.Subscribe(kind, f.delayedRefreshHandler(delay))
		f.unsubs = append(f.unsubs, unsub)
	}
	f.mu.Unlock()

	// Catch up immediately; whatever we missed while the subscription was
	// dying is already stale.
	f.doRefresh()

	f.wg.Add(1)
	go f.poll()
}

func (f *Feed) delayedRefreshHandler(delay time.Duration) bus.Handler {
	return func(bus.Event) {
		if f.ctx.Err() != nil {
			return
		}
		f.wg.Add(1)
		go func() {
			defer f.wg.Done()
			if delay > 0 {
				select {
				case <-f.ctx.Done():
					return
				case <-time.After(delay):
				}
			}
			f.doRefresh()
		}()
	}
}

func (f *Feed) poll() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.ctx.Done():
			return
		case <-ticker.C:
			f.doRefresh()
		}
	}
}

func (f *Feed) doRefresh() {
	if f.ctx.Err() != nil {
		return
	}

	// Serialize refreshes; overlapping triggers coalesce into sequential
	// full re-reads rather than concurrent ones.
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()

	if err := f.refresh(f.ctx); err != nil && f.ctx.Err() == nil {
		f.log.Warn("collection refresh failed",
			zap.String("table", f.cfg.Table), zap.Error(err))
	}
}

// OrdersConfig is the standard feed wiring for the orders collection.
func OrdersConfig(ackTimeout, poll, settle time.Duration) Config {
	return Config{
		Table:        store.TableOrders,
		AckTimeout:   ackTimeout,
		PollInterval: poll,
		BusEvents:    []bus.EventKind{bus.OrdersForceUpdate, bus.NewOrderCreated, bus.RefundProcessed},
		SettleEvents: []bus.EventKind{bus.NewOrderCreated},
		SettleDelay:  settle,
	}
}

// MenuConfig is the standard feed wiring for the menu collection.
func MenuConfig(ackTimeout, poll time.Duration) Config {
	return Config{
		Table:        store.TableMenuItems,
		AckTimeout:   ackTimeout,
		PollInterval: poll,
		BusEvents:    []bus.EventKind{bus.MenuItemsUpdated},
	}
}
