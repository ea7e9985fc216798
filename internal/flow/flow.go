// Package flow runs the two-step privileged commands (/roe and /declare): the
// command itself is checked and parked as a ticket, and the free-text form
// that follows turns the ticket into a public announcement.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/TripodGG/aegis-discord-bot/internal/access"
	"github.com/TripodGG/aegis-discord-bot/internal/database"
	"github.com/TripodGG/aegis-discord-bot/internal/logging"
	"github.com/TripodGG/aegis-discord-bot/internal/notifier"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
	"github.com/TripodGG/aegis-discord-bot/pkg/util"
)

const (
	// DefaultTTL is how long a ticket waits for its details form.
	DefaultTTL = 5 * time.Minute
	// MaxDetails caps the free text, in characters.
	MaxDetails = 4000
)

// Kind selects the action variant.
type Kind int

const (
	KindReport Kind = iota
	KindDeclare
)

func (k Kind) String() string {
	switch k {
	case KindReport:
		return "report"
	case KindDeclare:
		return "declare"
	default:
		return "unknown"
	}
}

// Request is what the triggering command carried.
type Request struct {
	Kind      Kind
	GuildID   string
	ChannelID string
	Invoker   platform.Member
	// Offender is only set for reports.
	Offender     platform.Member
	TargetRoleID string
}

// Ticket is a request that passed every check and waits for its details.
type Ticket struct {
	ID        string
	Request   Request
	Config    *database.GuildConfig
	ExpiresAt time.Time
}

// Publisher delivers announcements and audit entries.
type Publisher interface {
	Publish(ctx context.Context, guildID, channelID string, a notifier.Announcement) (platform.Receipt, error)
	Audit(ctx context.Context, cfg *database.GuildConfig, summary string)
}

// Outcome lists where a submitted action was posted. Warnings describe
// secondary deliveries that failed after the primary post went out.
type Outcome struct {
	Receipts []platform.Receipt
	Warnings []string
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}

type pending struct {
	ticket *Ticket
	timer  *time.Timer
}

// Service owns the pending tickets.
type Service struct {
	mu      sync.Mutex
	pending map[string]*pending

	store     database.Store
	directory platform.Directory
	publisher Publisher
	ttl       time.Duration
	now       func() time.Time
}

func NewService(store database.Store, directory platform.Directory, publisher Publisher, opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		pending:   make(map[string]*pending),
		store:     store,
		directory: directory,
		publisher: publisher,
		ttl:       opts.TTL,
		now:       opts.Now,
	}
}

// Begin validates targets, loads the guild config and applies the access
// policy. Nothing is sent whatever the outcome; on success the returned ticket
// lives until submitted, abandoned or expired.
func (s *Service) Begin(ctx context.Context, req Request) (*Ticket, error) {
	if err := s.validateTargets(ctx, req); err != nil {
		return nil, err
	}

	cfg, err := s.store.GetGuildConfig(ctx, req.GuildID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if ok, reason := access.CanInvoke(req.Invoker, cfg); !ok {
		logging.Info("Denied %s for %s in guild %s: %s", req.Kind, req.Invoker.UserID, req.GuildID, reason)
		return nil, &DeniedError{Reason: reason}
	}

	t := &Ticket{
		ID:        uuid.NewString(),
		Request:   req,
		Config:    cfg,
		ExpiresAt: s.now().Add(s.ttl),
	}
	id := t.ID
	s.mu.Lock()
	s.pending[id] = &pending{
		ticket: t,
		timer:  time.AfterFunc(s.ttl, func() { s.expire(id) }),
	}
	s.mu.Unlock()

	logging.Debug("Opened %s ticket %s for %s in guild %s", req.Kind, id, req.Invoker.UserID, req.GuildID)
	return t, nil
}

func (s *Service) validateTargets(ctx context.Context, req Request) error {
	switch req.Kind {
	case KindReport:
		if !util.IsSnowflake(req.Offender.UserID) {
			return fmt.Errorf("%w: offender is missing", ErrInvalidTarget)
		}
		if req.Offender.Bot {
			return fmt.Errorf("%w: bots cannot be reported", ErrInvalidTarget)
		}
	case KindDeclare:
	default:
		return ErrUnsupportedKind
	}

	if !util.IsSnowflake(req.TargetRoleID) {
		return fmt.Errorf("%w: role is missing", ErrInvalidTarget)
	}
	if req.TargetRoleID == req.GuildID {
		return fmt.Errorf("%w: @everyone cannot be targeted", ErrInvalidTarget)
	}
	roles, err := s.directory.Roles(ctx, req.GuildID)
	if err != nil {
		return fmt.Errorf("failed to list roles: %w", err)
	}
	if _, ok := platform.FindRole(roles, req.TargetRoleID); !ok {
		return fmt.Errorf("%w: role no longer exists", ErrInvalidTarget)
	}
	return nil
}

// Submit consumes the ticket and posts the announcement. A primary delivery
// failure is returned and nothing is audited; the mirror post is best effort.
func (s *Service) Submit(ctx context.Context, ticketID, userID, details string) (Outcome, error) {
	details = strings.TrimSpace(details)
	if details == "" {
		return Outcome{}, ErrEmptyDetails
	}
	if utf8.RuneCountInString(details) > MaxDetails {
		return Outcome{}, fmt.Errorf("%w: limit is %d characters", ErrDetailsTooLong, MaxDetails)
	}

	t, err := s.take(ticketID, userID)
	if err != nil {
		return Outcome{}, err
	}

	switch t.Request.Kind {
	case KindReport:
		return s.report(ctx, t, details)
	case KindDeclare:
		return s.declare(ctx, t, details)
	default:
		return Outcome{}, ErrUnsupportedKind
	}
}

func (s *Service) report(ctx context.Context, t *Ticket, details string) (Outcome, error) {
	req := t.Request
	a := reportAnnouncement(req, details, s.now())

	receipt, err := s.publisher.Publish(ctx, req.GuildID, req.ChannelID, a)
	if err != nil {
		return Outcome{}, err
	}
	logging.Info("RoE report %s posted in guild %s by %s", t.ID, req.GuildID, req.Invoker.UserID)

	s.publisher.Audit(ctx, t.Config, fmt.Sprintf("RoE reported by %s against %s | Pinged %s in %s.",
		platform.UserMention(req.Invoker.UserID),
		platform.UserMention(req.Offender.UserID),
		platform.RoleMention(req.TargetRoleID),
		platform.ChannelMention(req.ChannelID),
	))
	return Outcome{Receipts: []platform.Receipt{receipt}}, nil
}

func (s *Service) declare(ctx context.Context, t *Ticket, details string) (Outcome, error) {
	req := t.Request
	roles, channels := s.liveState(ctx, req.GuildID)

	escalation := ""
	if id, ok := t.Config.EscalationRoleID.Value(); ok {
		if _, live := platform.FindRole(roles, id); live {
			escalation = id
		}
	}
	a := declareAnnouncement(req, details, escalation, s.now())

	receipt, err := s.publisher.Publish(ctx, req.GuildID, req.ChannelID, a)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Receipts: []platform.Receipt{receipt}}

	if war, ok := t.Config.WarChannelID.Value(); ok && war != req.ChannelID {
		if _, live := platform.FindChannel(channels, war); live {
			mirror, err := s.publisher.Publish(ctx, req.GuildID, war, a)
			if err != nil {
				logging.Warn("War declaration %s could not be mirrored to %s: %v", t.ID, war, err)
				out.Warnings = append(out.Warnings, fmt.Sprintf("Could not post in %s.", platform.ChannelMention(war)))
			} else {
				out.Receipts = append(out.Receipts, mirror)
			}
		}
	}
	logging.Info("War declaration %s posted in guild %s by %s", t.ID, req.GuildID, req.Invoker.UserID)

	s.publisher.Audit(ctx, t.Config, fmt.Sprintf("War declared by %s vs %s. Pings: %s. Posted to: %s",
		platform.UserMention(req.Invoker.UserID),
		platform.RoleMention(req.TargetRoleID),
		pings(a),
		postedTo(out.Receipts),
	))
	return out, nil
}

// liveState returns nil slices on lookup failure, which drops the optional
// escalation ping and mirror rather than failing the declaration.
func (s *Service) liveState(ctx context.Context, guildID string) ([]platform.Role, []platform.Channel) {
	roles, err := s.directory.Roles(ctx, guildID)
	if err != nil {
		logging.Warn("Failed to list roles for guild %s: %v", guildID, err)
	}
	channels, err := s.directory.TextChannels(ctx, guildID)
	if err != nil {
		logging.Warn("Failed to list channels for guild %s: %v", guildID, err)
	}
	return roles, channels
}

func (s *Service) take(ticketID, userID string) (*Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[ticketID]
	if !ok {
		return nil, ErrExpired
	}
	if p.ticket.Request.Invoker.UserID != userID {
		return nil, ErrNotOwner
	}
	p.timer.Stop()
	delete(s.pending, ticketID)
	return p.ticket, nil
}

// Abandon drops a pending ticket without posting anything.
func (s *Service) Abandon(ticketID, userID string) error {
	t, err := s.take(ticketID, userID)
	if err != nil {
		return err
	}
	logging.Debug("Ticket %s abandoned in guild %s", t.ID, t.Request.GuildID)
	return nil
}

func (s *Service) expire(id string) {
	s.mu.Lock()
	p, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	s.mu.Unlock()
	if ok {
		logging.Debug("Ticket %s expired in guild %s", id, p.ticket.Request.GuildID)
	}
}

// Len returns the number of pending tickets.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close drops every pending ticket.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}
}
