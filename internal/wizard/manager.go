package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TripodGG/aegis-discord-bot/internal/database"
	"github.com/TripodGG/aegis-discord-bot/internal/logging"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
)

// DefaultIdleTimeout closes a panel nobody has touched for this long.
const DefaultIdleTimeout = 10 * time.Minute

type Options struct {
	IdleTimeout time.Duration
	Now         func() time.Time
	// OnExpire runs after a session times out, outside any lock.
	OnExpire func(*Session)
}

type entry struct {
	session *Session
	timer   *time.Timer
	gen     uint64
}

// Manager owns every open session and its idle timer.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry

	store     database.Store
	directory platform.Directory
	auditor   Auditor
	idle      time.Duration
	now       func() time.Time
	onExpire  func(*Session)
}

func NewManager(store database.Store, directory platform.Directory, auditor Auditor, opts Options) *Manager {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		sessions:  make(map[string]*entry),
		store:     store,
		directory: directory,
		auditor:   auditor,
		idle:      opts.IdleTimeout,
		now:       opts.Now,
		onExpire:  opts.OnExpire,
	}
}

// Open starts a session for owner, seeded from the committed config (if any)
// and option sets read from the live guild.
func (m *Manager) Open(ctx context.Context, guildID string, owner Actor) (*Session, error) {
	cfg, err := m.store.GetGuildConfig(ctx, guildID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	roles, err := m.directory.Roles(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	channels, err := m.directory.TextChannels(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}

	s := &Session{
		id:        uuid.NewString(),
		guildID:   guildID,
		ownerID:   owner.UserID,
		state:     StateOpen,
		draft:     NewDraft(cfg),
		roles:     roles,
		channels:  channels,
		store:     m.store,
		directory: m.directory,
		auditor:   m.auditor,
		now:       m.now,
	}
	s.valid = BuildPanel(guildID, roles, channels, Draft{}).validValues()

	m.mu.Lock()
	e := &entry{session: s}
	m.sessions[s.id] = e
	m.armLocked(e)
	m.mu.Unlock()

	logging.Info("Setup opened for guild %s by %s (session %s)", guildID, owner.UserID, s.id)
	return s, nil
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Handle routes ev to the session, restarting its idle timer on every
// authorized event and forgetting it once it reaches a terminal state.
func (m *Manager) Handle(ctx context.Context, id string, ev Event) (Result, error) {
	s, ok := m.Get(id)
	if !ok {
		return Result{}, ErrUnknownSession
	}

	res, err := s.Handle(ctx, ev)
	if errors.Is(err, ErrForbidden) {
		return res, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return res, err
	}
	if res.State.Terminal() {
		e.timer.Stop()
		delete(m.sessions, id)
		return res, err
	}
	m.armLocked(e)
	return res, err
}

// armLocked (re)starts the idle timer. A generation counter discards firings
// of timers that were replaced while their callback was already queued.
func (m *Manager) armLocked(e *entry) {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.gen++
	gen := e.gen
	id := e.session.id
	e.timer = time.AfterFunc(m.idle, func() { m.expire(id, gen) })
}

func (m *Manager) expire(id string, gen uint64) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok || e.gen != gen {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, id)
	m.mu.Unlock()

	if !e.session.expire() {
		return
	}
	logging.Info("Setup session %s for guild %s timed out", id, e.session.guildID)
	if m.onExpire != nil {
		m.onExpire(e.session)
	}
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops every idle timer and discards all drafts without writing.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.sessions {
		e.timer.Stop()
		e.session.expire()
		delete(m.sessions, id)
	}
}
