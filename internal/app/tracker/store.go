// Package tracker owns the authoritative in-memory tracker state. All reads
// are snapshot copies; all writes go through the mutation methods on Store,
// which validate, commit and then hand the new state to the background
// persistence writer.
package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/repositories"
	"github.com/yigit/unitrack/internal/seed"
)

// Repository is the slot persistence the store loads from and saves to.
type Repository interface {
	LoadCourses(ctx context.Context) ([]models.Course, error)
	LoadAreas(ctx context.Context) ([]models.Area, error)
	LoadProfile(ctx context.Context) (models.UserProfile, error)
	LoadViewMode(ctx context.Context) (models.ViewMode, error)
	SaveSnapshot(ctx context.Context, courses []models.Course, areas []models.Area, profile models.UserProfile, mode models.ViewMode) error
}

// Snapshot is a complete, detached copy of the tracker state.
type Snapshot struct {
	Courses  []models.Course    `json:"courses"`
	Areas    []models.Area      `json:"areas"`
	Profile  models.UserProfile `json:"profile"`
	ViewMode models.ViewMode    `json:"viewMode"`
}

// Clone deep-copies the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Courses:  models.CloneCourses(s.Courses),
		Areas:    models.CloneAreas(s.Areas),
		Profile:  s.Profile.Clone(),
		ViewMode: s.ViewMode,
	}
}

// DefaultSnapshot is the state of a tracker that has never been saved.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Courses:  seed.Courses(),
		Areas:    seed.Areas(),
		Profile:  seed.Profile(),
		ViewMode: models.DefaultViewMode,
	}
}

// EventType names a change notification.
type EventType string

const (
	EventSnapshotUpdated EventType = "snapshot.updated"
	EventSaveCompleted   EventType = "save.completed"
	EventSaveFailed      EventType = "save.failed"
)

// Event is delivered to listeners after a committed mutation or a save outcome.
type Event struct {
	Type   EventType `json:"type"`
	Reason string    `json:"reason,omitempty"`
	Error  string    `json:"error,omitempty"`
	At     time.Time `json:"at"`
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(lgr zerolog.Logger) Option {
	return func(s *Store) { s.logger = lgr }
}

// WithSaveIndicatorDelay keeps SaveStatus.Saving true for at least d after
// each mutation.
func WithSaveIndicatorDelay(d time.Duration) Option {
	return func(s *Store) { s.indicatorDelay = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the single source of truth for courses, areas, profile and view mode.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot

	repo           Repository
	logger         zerolog.Logger
	now            func() time.Time
	indicatorDelay time.Duration

	listenersMu sync.RWMutex
	listeners   []func(Event)

	writer *writer
}

// New creates a store holding the default snapshot and starts its
// persistence writer. Call Load to read persisted state and Close to stop
// the writer.
func New(repo Repository, opts ...Option) *Store {
	s := &Store{
		snap:   DefaultSnapshot(),
		repo:   repo,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.writer = newWriter(repo, s.logger, s.now, s.emit)
	go s.writer.run()
	return s
}

// Load reads every slot concurrently. A missing or unreadable slot falls
// back to its default without affecting the others.
func (s *Store) Load(ctx context.Context) error {
	defaults := DefaultSnapshot()
	loaded := defaults

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		courses, err := s.repo.LoadCourses(gctx)
		if err != nil {
			s.logFallback(repositories.SlotCourses, err)
			return nil
		}
		loaded.Courses = courses
		return nil
	})
	g.Go(func() error {
		areas, err := s.repo.LoadAreas(gctx)
		if err != nil {
			s.logFallback(repositories.SlotAreas, err)
			return nil
		}
		loaded.Areas = areas
		return nil
	})
	g.Go(func() error {
		profile, err := s.repo.LoadProfile(gctx)
		if err != nil {
			s.logFallback(repositories.SlotProfile, err)
			return nil
		}
		loaded.Profile = profile
		return nil
	})
	g.Go(func() error {
		mode, err := s.repo.LoadViewMode(gctx)
		if err != nil {
			s.logFallback(repositories.SlotView, err)
			return nil
		}
		loaded.ViewMode = mode
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.snap = loaded
	s.mu.Unlock()

	s.logger.Info().
		Int("courses", len(loaded.Courses)).
		Int("areas", len(loaded.Areas)).
		Str("view", string(loaded.ViewMode)).
		Msg("Tracker state loaded")
	return nil
}

func (s *Store) logFallback(slot string, err error) {
	event := s.logger.Warn()
	if errors.Is(err, repositories.ErrSlotEmpty) {
		event = s.logger.Debug()
	}
	event.Err(err).Str("slot", slot).Msg("Using default value for slot")
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Courses returns a copy of the course list.
func (s *Store) Courses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneCourses(s.snap.Courses)
}

// Areas returns a copy of the area list.
func (s *Store) Areas() []models.Area {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneAreas(s.snap.Areas)
}

// Course looks up one course by id.
func (s *Store) Course(id string) (models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOfCourse(s.snap.Courses, id); i >= 0 {
		return s.snap.Courses[i].Clone(), true
	}
	return models.Course{}, false
}

// OnChange registers a listener. Listeners run synchronously on the
// goroutine that produced the event and must not block or call back into
// mutation methods.
func (s *Store) OnChange(fn func(Event)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) emit(e Event) {
	s.listenersMu.RLock()
	listeners := s.listeners
	s.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(e)
	}
}

// SaveStatus reports the persistence state.
func (s *Store) SaveStatus() SaveStatus {
	return s.writer.status(s.indicatorDelay)
}

// Flush blocks until every mutation committed so far has been written (or
// has failed to write), or ctx is done.
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.flush(ctx)
}

// Close flushes pending writes and stops the writer. Mutations after Close
// still apply in memory but are no longer persisted.
func (s *Store) Close() error {
	s.writer.close()
	return nil
}

// mutate runs fn under the write lock. fn must validate before it changes
// anything, so a returned error leaves the snapshot untouched. When fn
// reports a change the new state is queued for persistence and listeners
// are notified.
func (s *Store) mutate(ctx context.Context, reason string, fn func(snap *Snapshot) (changed bool, err error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	changed, err := fn(&s.snap)
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	s.writer.enqueue(s.snap.Clone())
	s.mu.Unlock()

	s.logger.Debug().Str("reason", reason).Msg("Tracker state changed")
	s.emit(Event{Type: EventSnapshotUpdated, Reason: reason, At: s.now()})
	return nil
}

func indexOfCourse(courses []models.Course, id string) int {
	for i, c := range courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}
