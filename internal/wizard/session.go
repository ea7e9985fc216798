// Package wizard implements the staged /setup panel: a per-admin session that
// buffers edits in a draft and only writes the guild config on Save.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/TripodGG/aegis-discord-bot/internal/database"
	"github.com/TripodGG/aegis-discord-bot/internal/logging"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
)

// State is the lifecycle position of a session.
type State int

const (
	StateOpen State = iota
	StateSaved
	StateCancelled
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateSaved:
		return "saved"
	case StateCancelled:
		return "cancelled"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further event can change the session.
func (s State) Terminal() bool {
	return s != StateOpen
}

var (
	ErrForbidden      = errors.New("this setup panel is locked to the admin who opened it")
	ErrClosed         = errors.New("this setup panel is no longer active")
	ErrUnknownSession = errors.New("setup session not found")
)

// ValidationError rejects a transition because of one field; the session
// stays open with its draft intact.
type ValidationError struct {
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Actor is the member behind an event.
type Actor struct {
	UserID        string
	Administrator bool
}

// Event is a user action on the panel.
type Event interface {
	actor() Actor
}

// Select replaces the draft value of one field with the picked option values.
type Select struct {
	By     Actor
	Field  Field
	Values []string
}

// Save commits the draft.
type Save struct {
	By Actor
}

// Cancel discards the draft.
type Cancel struct {
	By Actor
}

func (e Select) actor() Actor { return e.By }
func (e Save) actor() Actor   { return e.By }
func (e Cancel) actor() Actor { return e.By }

// Auditor mirrors a summary to the guild's audit channel and never fails.
type Auditor interface {
	Audit(ctx context.Context, cfg *database.GuildConfig, summary string)
}

// Result describes the session after an event.
type Result struct {
	State   State
	Config  *database.GuildConfig
	Summary string
}

// View is a snapshot for rendering.
type View struct {
	ID      string
	State   State
	Draft   Draft
	Panel   Panel
	OwnerID string
}

// Session is one open /setup panel. Its events are serialized.
type Session struct {
	mu sync.Mutex

	id      string
	guildID string
	ownerID string
	state   State
	draft   Draft

	roles    []platform.Role
	channels []platform.Channel
	valid    map[Field]map[string]bool

	store     database.Store
	directory platform.Directory
	auditor   Auditor
	now       func() time.Time
}

func (s *Session) ID() string      { return s.id }
func (s *Session) GuildID() string { return s.guildID }
func (s *Session) OwnerID() string { return s.ownerID }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View renders the current draft against the option sets captured at open.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:      s.id,
		State:   s.state,
		Draft:   s.draft,
		Panel:   BuildPanel(s.guildID, s.roles, s.channels, s.draft),
		OwnerID: s.ownerID,
	}
}

func (s *Session) authorize(a Actor) error {
	if a.UserID == s.ownerID || a.Administrator {
		return nil
	}
	return ErrForbidden
}

// Handle applies ev. Rejected events leave state and draft untouched.
func (s *Session) Handle(ctx context.Context, ev Event) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return Result{State: s.state}, ErrClosed
	}
	if err := s.authorize(ev.actor()); err != nil {
		return Result{State: s.state}, err
	}

	switch ev := ev.(type) {
	case Select:
		next := s.draft
		if err := next.apply(ev.Field, ev.Values, s.valid[ev.Field]); err != nil {
			return Result{State: s.state}, err
		}
		s.draft = next
		return Result{State: s.state}, nil
	case Save:
		return s.save(ctx, ev.By)
	case Cancel:
		s.state = StateCancelled
		s.draft = Draft{}
		logging.Info("Setup cancelled for guild %s by %s", s.guildID, ev.By.UserID)
		return Result{State: s.state}, nil
	default:
		return Result{State: s.state}, fmt.Errorf("unsupported event %T", ev)
	}
}

func (s *Session) save(ctx context.Context, by Actor) (Result, error) {
	roles, channels := s.liveState(ctx)
	// A stored log channel that has since been deleted counts as unset.
	if _, ok := platform.FindChannel(channels, s.draft.AuditChannelID); !ok {
		return Result{State: s.state}, &ValidationError{Field: FieldAuditChannel, Message: "Please select a **Log Channel**."}
	}

	cfg := s.draft.Config(s.guildID, by.UserID, s.now())
	if err := s.store.SaveGuildConfig(ctx, cfg); err != nil {
		return Result{State: s.state}, fmt.Errorf("failed to save configuration: %w", err)
	}
	s.state = StateSaved
	s.draft = Draft{}
	logging.Info("Configuration saved for guild %s by %s", s.guildID, by.UserID)

	summary := Summarize(cfg, roles, channels)
	s.auditor.Audit(ctx, cfg, fmt.Sprintf("🛠️ Configuration updated by %s.\n%s", platform.UserMention(by.UserID), summary))

	return Result{State: s.state, Config: cfg, Summary: summary}, nil
}

// liveState re-reads roles and channels, falling back to the open-time snapshot.
func (s *Session) liveState(ctx context.Context) ([]platform.Role, []platform.Channel) {
	roles, err := s.directory.Roles(ctx, s.guildID)
	if err != nil {
		logging.Warn("Failed to refresh roles for guild %s: %v", s.guildID, err)
		roles = s.roles
	}
	channels, err := s.directory.TextChannels(ctx, s.guildID)
	if err != nil {
		logging.Warn("Failed to refresh channels for guild %s: %v", s.guildID, err)
		channels = s.channels
	}
	return roles, channels
}

// expire moves an open session to Expired. It reports whether it did.
func (s *Session) expire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return false
	}
	s.state = StateExpired
	s.draft = Draft{}
	return true
}
