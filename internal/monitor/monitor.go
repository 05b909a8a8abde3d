package monitor

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kindling/internal/api"
	"kindling/internal/config"
	"kindling/internal/store"
	"kindling/internal/ui/messages"
)

const (
	// fullSweepEvery forces a poll of every followed user, bypassing the
	// changed-profiles gate, so a missed updates window cannot hide
	// activity forever.
	fullSweepEvery = 10

	pollConcurrency = 4
)

// Source is the slice of the HN API the watcher needs.
type Source interface {
	GetUser(ctx context.Context, username string) (*api.User, error)
	GetUpdates(ctx context.Context) (*api.Updates, error)
}

// Notifier receives messages for the running UI. *tea.Program satisfies it.
type Notifier interface {
	Send(msg tea.Msg)
}

// Watcher polls the profiles of followed users in the background and
// records submissions newer than what was last seen as unread activity.
type Watcher struct {
	source   Source
	store    *store.Store
	interval time.Duration
	log      *zap.Logger

	notify Notifier
	stopCh chan struct{}
	done   chan struct{}
}

// New creates a watcher. It does not poll until Start.
func New(cfg config.Config, source Source, st *store.Store, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		source:   source,
		store:    st,
		interval: cfg.MonitorInterval,
		log:      log,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the background polling loop.
func (w *Watcher) Start(n Notifier) {
	w.notify = n
	go w.loop()
}

// Stop halts polling and waits for the loop to exit.
func (w *Watcher) Stop() {
	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}
	<-w.done
}

func (w *Watcher) loop() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Sweep right away so activity since the last run surfaces without
	// waiting a full interval.
	w.poll(context.Background(), true)

	ticks := 0
	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ticks++
			w.poll(context.Background(), ticks%fullSweepEvery == 0)
		}
	}
}

// poll checks followed users for submissions newer than last seen. Partial
// sweeps consult the updates feed first and skip users whose profiles have
// not changed; a failed updates fetch degrades to a full sweep.
func (w *Watcher) poll(ctx context.Context, full bool) {
	follows, err := w.store.ListFollows()
	if err != nil || len(follows) == 0 {
		return
	}

	candidates := follows
	if !full {
		updates, err := w.source.GetUpdates(ctx)
		if err != nil {
			w.log.Debug("updates feed failed, sweeping all follows", zap.Error(err))
		} else {
			changed := make(map[string]bool, len(updates.Profiles))
			for _, p := range updates.Profiles {
				changed[p] = true
			}
			candidates = nil
			for _, f := range follows {
				if changed[f.Username] {
					candidates = append(candidates, f)
				}
			}
		}
	}
	if len(candidates) == 0 {
		return
	}

	var touched atomic.Bool
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pollConcurrency)
	for _, f := range candidates {
		f := f
		g.Go(func() error {
			select {
			case <-w.stopCh:
				return nil
			default:
			}

			user, err := w.source.GetUser(gctx, f.Username)
			if err != nil {
				w.log.Debug("profile fetch failed", zap.String("user", f.Username), zap.Error(err))
				return nil
			}
			fresh, newest := freshSubmissions(user.Submitted, f.LastSeen)
			if f.LastSeen == 0 {
				// First sighting of this follow: record the baseline
				// without flooding unread with their whole history.
				if newest > 0 {
					if err := w.store.RecordActivity(f.Username, newest, 0); err != nil {
						w.log.Warn("recording baseline failed", zap.String("user", f.Username), zap.Error(err))
					}
				}
				return nil
			}
			if fresh == 0 {
				return nil
			}
			if err := w.store.RecordActivity(f.Username, newest, fresh); err != nil {
				w.log.Warn("recording activity failed", zap.String("user", f.Username), zap.Error(err))
				return nil
			}
			w.log.Info("new activity", zap.String("user", f.Username), zap.Int("count", fresh))
			touched.Store(true)
			return nil
		})
	}
	g.Wait()

	if touched.Load() && w.notify != nil {
		w.notify.Send(messages.UnreadMsg{Total: w.store.TotalUnread()})
	}
}

// freshSubmissions counts submitted item ids newer than lastSeen and
// returns the newest id. The profile lists submissions newest first.
func freshSubmissions(submitted []int, lastSeen int) (count, newest int) {
	if len(submitted) == 0 {
		return 0, 0
	}
	newest = submitted[0]
	for _, id := range submitted {
		if id > lastSeen {
			count++
		}
		if id > newest {
			newest = id
		}
	}
	return count, newest
}
