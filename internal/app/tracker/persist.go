package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// saveTimeout bounds a single background write.
const saveTimeout = 15 * time.Second

// SaveStatus is the persistence indicator. Saving is true while a committed
// mutation has not been written yet, and for at least the configured
// indicator delay after the last mutation.
type SaveStatus struct {
	Saving        bool       `json:"saving"`
	PendingWrites uint64     `json:"pendingWrites"`
	LastSavedAt   *time.Time `json:"lastSavedAt,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
	LastErrorAt   *time.Time `json:"lastErrorAt,omitempty"`
}

type flushWaiter struct {
	target uint64
	done   chan struct{}
}

// writer persists snapshots on a single goroutine. Only the latest pending
// snapshot is kept: intermediate states that were superseded before the
// writer got to them are skipped.
type writer struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
	emit   func(Event)

	mu           sync.Mutex
	pending      *Snapshot
	requested    uint64 // sequence number of the latest enqueued snapshot
	written      uint64 // sequence number of the latest finished write
	lastMutation time.Time
	lastSavedAt  time.Time
	lastErr      error
	lastErrAt    time.Time
	waiters      []flushWaiter
	closed       bool

	wake    chan struct{}
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func newWriter(repo Repository, lgr zerolog.Logger, now func() time.Time, emit func(Event)) *writer {
	return &writer{
		repo:    repo,
		logger:  lgr,
		now:     now,
		emit:    emit,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (w *writer) enqueue(snap Snapshot) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn().Msg("Tracker store closed, change kept in memory only")
		return
	}
	w.requested++
	w.pending = &snap
	w.lastMutation = w.now()
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.stopped)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	for {
		w.mu.Lock()
		if w.pending == nil {
			w.mu.Unlock()
			return
		}
		snap := *w.pending
		seq := w.requested
		w.pending = nil
		w.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := w.repo.SaveSnapshot(ctx, snap.Courses, snap.Areas, snap.Profile, snap.ViewMode)
		cancel()

		at := w.now()
		w.mu.Lock()
		w.written = seq
		if err != nil {
			w.lastErr = err
			w.lastErrAt = at
		} else {
			w.lastErr = nil
			w.lastSavedAt = at
		}
		w.releaseWaiters()
		w.mu.Unlock()

		if err != nil {
			w.logger.Error().Err(err).Uint64("seq", seq).Msg("Failed to persist tracker state")
			w.emit(Event{Type: EventSaveFailed, Error: err.Error(), At: at})
		} else {
			w.logger.Debug().Uint64("seq", seq).Msg("Tracker state persisted")
			w.emit(Event{Type: EventSaveCompleted, At: at})
		}
	}
}

// releaseWaiters must be called with mu held.
func (w *writer) releaseWaiters() {
	kept := w.waiters[:0]
	for _, fw := range w.waiters {
		if w.written >= fw.target {
			close(fw.done)
			continue
		}
		kept = append(kept, fw)
	}
	w.waiters = kept
}

func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	if w.written >= w.requested {
		w.mu.Unlock()
		return nil
	}
	fw := flushWaiter{target: w.requested, done: make(chan struct{})}
	w.waiters = append(w.waiters, fw)
	w.mu.Unlock()

	select {
	case <-fw.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *writer) close() {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.stop)
		<-w.stopped
	})
}

func (w *writer) status(indicatorDelay time.Duration) SaveStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := SaveStatus{PendingWrites: w.requested - w.written}
	st.Saving = st.PendingWrites > 0
	if !w.lastMutation.IsZero() && w.now().Sub(w.lastMutation) < indicatorDelay {
		st.Saving = true
	}
	if !w.lastSavedAt.IsZero() {
		t := w.lastSavedAt
		st.LastSavedAt = &t
	}
	if w.lastErr != nil {
		st.LastError = w.lastErr.Error()
		t := w.lastErrAt
		st.LastErrorAt = &t
	}
	return st
}
