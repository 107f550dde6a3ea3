package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/domain"
)

// Session is one in-flight practice run. The word list is fixed at start
// and never re-queried; only the position, the current task, and the
// single prefetch slot change afterwards. Sessions are ephemeral: a
// process restart loses them.
type Session struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Language string
	Words    []domain.WordPair

	mu              sync.Mutex
	position        int
	current         domain.Task
	prefetched      *domain.Task
	prefetchedPos   int
	prefetchPending bool
	pendingPos      int
}

func newSession(userID uuid.UUID, language string, words []domain.WordPair, first domain.Task) *Session {
	return &Session{
		ID:       uuid.New(),
		UserID:   userID,
		Language: language,
		Words:    words,
		current:  first,
	}
}

// Position is the index of the task the learner is currently on.
func (s *Session) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Total is the fixed number of words in the run.
func (s *Session) Total() int {
	return len(s.Words)
}

// Current returns the task at the current position without advancing.
func (s *Session) Current() domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// NextPosition is the index the next advance would move to.
func (s *Session) NextPosition() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position + 1
}

// advance moves the session forward one step onto task. A cached task
// that now lies behind the position is dropped.
func (s *Session) advance(task domain.Task) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position++
	s.current = task
	if s.prefetched != nil && s.prefetchedPos <= s.position {
		s.prefetched = nil
	}
	return s.position
}

// tryBeginPrefetch claims the prefetch slot for the task at pos. It
// refuses when a prefetch is already pending, the slot already holds
// that task, or pos is not the immediate next position.
func (s *Session) tryBeginPrefetch(pos int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos != s.position+1 || pos >= len(s.Words) {
		return false
	}
	if s.prefetchPending || (s.prefetched != nil && s.prefetchedPos == pos) {
		return false
	}

	s.prefetchPending = true
	s.pendingPos = pos
	return true
}

// finishPrefetch releases the slot claimed by tryBeginPrefetch, caching
// the task on success. A completion for a position the session has
// already moved past is discarded.
func (s *Session) finishPrefetch(pos int, task domain.Task, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.prefetchPending || s.pendingPos != pos {
		return
	}
	s.prefetchPending = false

	if ok && pos > s.position {
		t := task
		s.prefetched = &t
		s.prefetchedPos = pos
	}
}

// takePrefetched consumes the cached task for pos, if present. The slot
// is emptied on consumption so the task is handed out at most once.
func (s *Session) takePrefetched(pos int) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefetched == nil || s.prefetchedPos != pos {
		return domain.Task{}, false
	}

	task := *s.prefetched
	s.prefetched = nil
	return task, true
}

// Store holds in-flight sessions. The in-memory implementation below
// suits a single-instance deployment; a multi-instance one would back
// this with a shared store.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Put(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemoryStore is a mutex-guarded in-process session store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID]*Session)}
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sess, nil
}

func (m *MemoryStore) Put(_ context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}
