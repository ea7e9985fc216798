package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TripodGG/aegis-discord-bot/internal/access"
	"github.com/TripodGG/aegis-discord-bot/internal/database"
	"github.com/TripodGG/aegis-discord-bot/internal/database/databasetest"
	"github.com/TripodGG/aegis-discord-bot/internal/notifier"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
	"github.com/TripodGG/aegis-discord-bot/internal/platform/platformtest"
)

const (
	guildID    = "100000000000000001"
	ownerID    = "200000000000000001"
	strangerID = "200000000000000002"
	captainID  = "300000000000000001"
	mutedID    = "300000000000000002"
	admiralID  = "300000000000000003"
	generalID  = "400000000000000001"
	warID      = "400000000000000002"
	logID      = "400000000000000003"
)

var (
	owner    = Actor{UserID: ownerID, Administrator: true}
	stranger = Actor{UserID: strangerID}
	fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	store    *databasetest.Memory
	platform *platformtest.Platform
	manager  *Manager
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	p := platformtest.New().
		AddRole(guildID, platform.Role{ID: guildID, Name: "@everyone", Position: 0}).
		AddRole(guildID, platform.Role{ID: captainID, Name: "Captain", Position: 3}).
		AddRole(guildID, platform.Role{ID: mutedID, Name: "Muted", Position: 1}).
		AddRole(guildID, platform.Role{ID: admiralID, Name: "Admiral", Position: 5}).
		AddChannel(guildID, platform.Channel{ID: generalID, Name: "general", Position: 0}).
		AddChannel(guildID, platform.Channel{ID: logID, Name: "mod-log", Position: 2}).
		AddChannel(guildID, platform.Channel{ID: warID, Name: "war-room", Position: 1})
	store := databasetest.NewMemory()
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	m := NewManager(store, p, notifier.NewDispatcher(p, p), opts)
	t.Cleanup(m.Close)
	return &fixture{store: store, platform: p, manager: m}
}

func (f *fixture) open(t *testing.T) *Session {
	t.Helper()
	s, err := f.manager.Open(context.Background(), guildID, owner)
	require.NoError(t, err)
	return s
}

func (f *fixture) handle(t *testing.T, s *Session, ev Event) Result {
	t.Helper()
	res, err := f.manager.Handle(context.Background(), s.ID(), ev)
	require.NoError(t, err)
	return res
}

func TestSaveWithOnlyAuditChannel(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.open(t)

	f.handle(t, s, Select{By: owner, Field: FieldAuditChannel, Values: []string{logID}})
	res := f.handle(t, s, Save{By: owner})

	assert.Equal(t, StateSaved, res.State)
	require.NotNil(t, res.Config)
	assert.Empty(t, res.Config.AllowedRoleIDs)
	assert.NotNil(t, res.Config.AllowedRoleIDs)
	assert.Empty(t, res.Config.ExcludedRoleIDs)
	assert.False(t, res.Config.EscalationRoleID.Chosen)
	assert.False(t, res.Config.WarChannelID.Chosen)
	assert.Equal(t, logID, res.Config.AuditChannelID)
	assert.Equal(t, ownerID, res.Config.UpdatedBy)
	assert.Equal(t, fixedNow, res.Config.UpdatedAt)

	stored, err := f.store.GetGuildConfig(context.Background(), guildID)
	require.NoError(t, err)
	assert.Equal(t, res.Config, stored)

	ok, reason := access.CanInvoke(platform.Member{UserID: "5", RoleIDs: []string{captainID}}, stored)
	assert.False(t, ok)
	assert.Equal(t, access.ReasonNotConfigured, reason)

	audits := f.platform.SentTo(logID)
	require.Len(t, audits, 1)
	assert.True(t, strings.HasPrefix(audits[0].Content, "🛠️ Configuration updated by <@"+ownerID+">."))
	assert.Contains(t, audits[0].Content, "**Allowed:** _none_")
	assert.Contains(t, audits[0].Content, "**Log Channel:** <#"+logID+">")
	assert.Empty(t, audits[0].Mentions.Roles)
	assert.Empty(t, audits[0].Mentions.Users)

	assert.Equal(t, 0, f.manager.Len())
}

func TestSaveWithoutAuditChannelStaysOpen(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.open(t)

	f.handle(t, s, Select{By: owner, Field: FieldAllowedRoles, Values: []string{captainID}})
	_, err := f.manager.Handle(context.Background(), s.ID(), Save{By: owner})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, FieldAuditChannel, verr.Field)
	assert.Equal(t, StateOpen, s.State())
	assert.Equal(t, 0, f.store.Saves())
	assert.Empty(t, f.platform.Sent())
	assert.Equal(t, []string{captainID}, s.View().Draft.AllowedRoleIDs)
}

func TestSaveRejectsDeletedAuditChannel(t *testing.T) {
	f := newFixture(t, Options{})
	f.store.Put(&database.GuildConfig{
		GuildID:         guildID,
		AllowedRoleIDs:  []string{captainID},
		ExcludedRoleIDs: []string{},
		AuditChannelID:  "499999999999999999",
	})
	s := f.open(t)

	audit, _ := s.View().Panel.Picker(FieldAuditChannel)
	for _, o := range audit.Options {
		assert.False(t, o.Default, o.Value)
	}

	_, err := f.manager.Handle(context.Background(), s.ID(), Save{By: owner})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, FieldAuditChannel, verr.Field)
	assert.Equal(t, StateOpen, s.State())
	assert.Equal(t, 0, f.store.Saves())
	assert.Empty(t, f.platform.Sent())

	f.handle(t, s, Select{By: owner, Field: FieldAuditChannel, Values: []string{logID}})
	res := f.handle(t, s, Save{By: owner})
	assert.Equal(t, StateSaved, res.State)
	assert.Equal(t, logID, res.Config.AuditChannelID)
	assert.Equal(t, []string{captainID}, res.Config.AllowedRoleIDs)
}

func TestFullConfigurationRoundTrip(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.open(t)

	f.handle(t, s, Select{By: owner, Field: FieldAllowedRoles, Values: []string{captainID, captainID}})
	f.handle(t, s, Select{By: owner, Field: FieldExcludedRoles, Values: []string{mutedID}})
	f.handle(t, s, Select{By: owner, Field: FieldEscalationRole, Values: []string{admiralID}})
	f.handle(t, s, Select{By: owner, Field: FieldWarChannel, Values: []string{NoneValue}})
	f.handle(t, s, Select{By: owner, Field: FieldAuditChannel, Values: []string{logID}})
	res := f.handle(t, s, Save{By: owner})

	cfg := res.Config
	assert.Equal(t, []string{captainID}, cfg.AllowedRoleIDs)
	assert.Equal(t, []string{mutedID}, cfg.ExcludedRoleIDs)
	assert.Equal(t, database.Pick(admiralID), cfg.EscalationRoleID)
	assert.True(t, cfg.WarChannelID.IsNone())
	assert.Contains(t, res.Summary, "**War Channel:** Not set")
	assert.Contains(t, res.Summary, "**Admiral Role:** <@&"+admiralID+">")

	// A second session starts from what was committed, explicit none included.
	next := f.open(t)
	d := next.View().Draft
	assert.Equal(t, []string{captainID}, d.AllowedRoleIDs)
	assert.True(t, d.WarChannel.IsNone())
	war, ok := next.View().Panel.Picker(FieldWarChannel)
	require.True(t, ok)
	assert.True(t, war.Options[0].Default)
}

func TestUntouchedFieldsKeepCommittedValues(t *testing.T) {
	f := newFixture(t, Options{})
	f.store.Put(&database.GuildConfig{
		GuildID:          guildID,
		AllowedRoleIDs:   []string{captainID},
		ExcludedRoleIDs:  []string{},
		EscalationRoleID: database.Pick(admiralID),
		WarChannelID:     database.Pick(warID),
		AuditChannelID:   logID,
	})
	s := f.open(t)

	f.handle(t, s, Select{By: owner, Field: FieldExcludedRoles, Values: []string{mutedID}})
	res := f.handle(t, s, Save{By: owner})

	assert.Equal(t, []string{captainID}, res.Config.AllowedRoleIDs)
	assert.Equal(t, database.Pick(warID), res.Config.WarChannelID)
	assert.Equal(t, []string{mutedID}, res.Config.ExcludedRoleIDs)
}

func TestCancelDiscardsDraft(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.open(t)

	f.handle(t, s, Select{By: owner, Field: FieldAuditChannel, Values: []string{logID}})
	res := f.handle(t, s, Cancel{By: owner})

	assert.Equal(t, StateCancelled, res.State)
	assert.Equal(t, 0, f.store.Saves())
	assert.Empty(t, f.platform.Sent())

	_, err := f.manager.Handle(context.Background(), s.ID(), Save{By: owner})
	assert.ErrorIs(t, err, ErrUnknownSession)
	_, err = s.Handle(context.Background(), Save{By: owner})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOnlyOwnerOrAdminMayEdit(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.open(t)

	_, err := f.manager.Handle(context.Background(), s.ID(), Select{By: stranger, Field: FieldAuditChannel, Values: []string{logID}})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.manager.Handle(context.Background(), s.ID(), Cancel{By: stranger})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, StateOpen, s.State())
	assert.Empty(t, s.View().Draft.AuditChannelID)

	otherAdmin := Actor{UserID: strangerID, Administrator: true}
	f.handle(t, s, Select{By: otherAdmin, Field: FieldAuditChannel, Values: []string{logID}})
	res := f.handle(t, s, Save{By: otherAdmin})
	assert.Equal(t, strangerID, res.Config.UpdatedBy)
}

func TestRejectsValuesNotOffered(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.open(t)

	cases := []Select{
		{By: owner, Field: FieldAllowedRoles, Values: []string{guildID}},
		{By: owner, Field: FieldExcludedRoles, Values: []string{"999"}},
		{By: owner, Field: FieldAuditChannel, Values: []string{NoneValue}},
		{By: owner, Field: FieldEscalationRole, Values: []string{admiralID, captainID}},
	}
	for _, ev := range cases {
		_, err := f.manager.Handle(context.Background(), s.ID(), ev)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "field %s", ev.Field)
		assert.Equal(t, ev.Field, verr.Field)
	}
	assert.Equal(t, Draft{}, s.View().Draft)
}

func TestFailedWriteKeepsSessionOpen(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.open(t)
	f.store.FailSaves(errors.New("disk full"))

	f.handle(t, s, Select{By: owner, Field: FieldAuditChannel, Values: []string{logID}})
	_, err := f.manager.Handle(context.Background(), s.ID(), Save{By: owner})
	require.Error(t, err)
	assert.Equal(t, StateOpen, s.State())
	assert.Empty(t, f.platform.Sent())

	f.store.FailSaves(nil)
	res := f.handle(t, s, Save{By: owner})
	assert.Equal(t, StateSaved, res.State)
	assert.Len(t, f.platform.SentTo(logID), 1)
}

func TestAuditFailureDoesNotUndoSave(t *testing.T) {
	f := newFixture(t, Options{})
	f.platform.FailChannel(logID)
	s := f.open(t)

	f.handle(t, s, Select{By: owner, Field: FieldAuditChannel, Values: []string{logID}})
	res := f.handle(t, s, Save{By: owner})

	assert.Equal(t, StateSaved, res.State)
	assert.Equal(t, 1, f.store.Saves())
}

func TestIdleSessionExpires(t *testing.T) {
	expired := make(chan *Session, 1)
	f := newFixture(t, Options{
		IdleTimeout: 20 * time.Millisecond,
		OnExpire:    func(s *Session) { expired <- s },
	})
	s := f.open(t)
	f.handle(t, s, Select{By: owner, Field: FieldAuditChannel, Values: []string{logID}})

	select {
	case got := <-expired:
		assert.Equal(t, s.ID(), got.ID())
	case <-time.After(2 * time.Second):
		t.Fatal("session did not expire")
	}
	assert.Equal(t, StateExpired, s.State())
	assert.Equal(t, 0, f.manager.Len())
	assert.Equal(t, 0, f.store.Saves())

	_, err := f.manager.Handle(context.Background(), s.ID(), Save{By: owner})
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestActivityRestartsIdleTimer(t *testing.T) {
	f := newFixture(t, Options{IdleTimeout: 300 * time.Millisecond})
	s := f.open(t)

	for i := 0; i < 4; i++ {
		time.Sleep(120 * time.Millisecond)
		f.handle(t, s, Select{By: owner, Field: FieldAllowedRoles, Values: []string{captainID}})
	}
	assert.Equal(t, StateOpen, s.State())
	require.Eventually(t, func() bool { return s.State() == StateExpired }, 2*time.Second, 10*time.Millisecond)
}

func TestCloseExpiresOpenSessions(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.open(t)
	f.manager.Close()

	assert.Equal(t, StateExpired, s.State())
	assert.Equal(t, 0, f.manager.Len())
	assert.Equal(t, 0, f.store.Saves())
}
