// Package platformtest provides an in-memory platform for tests.
package platformtest

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/TripodGG/aegis-discord-bot/internal/platform"
)

// ErrSendFailed is returned for channels marked with FailChannel.
var ErrSendFailed = errors.New("platformtest: send failed")

// Sent is a recorded delivery.
type Sent struct {
	GuildID string
	Message platform.Message
	Receipt platform.Receipt
}

// Platform is a fake guild directory and message sink.
type Platform struct {
	mu       sync.Mutex
	roles    map[string][]platform.Role
	channels map[string][]platform.Channel
	failing  map[string]bool
	sent     []Sent
	nextID   int
}

// New returns an empty fake platform.
func New() *Platform {
	return &Platform{
		roles:    make(map[string][]platform.Role),
		channels: make(map[string][]platform.Channel),
		failing:  make(map[string]bool),
		nextID:   900000000000000000,
	}
}

// AddRole registers a live role.
func (p *Platform) AddRole(guildID string, r platform.Role) *Platform {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roles[guildID] = append(p.roles[guildID], r)
	return p
}

// AddChannel registers a live text channel.
func (p *Platform) AddChannel(guildID string, c platform.Channel) *Platform {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels[guildID] = append(p.channels[guildID], c)
	return p
}

// FailChannel makes every send to channelID fail.
func (p *Platform) FailChannel(channelID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failing[channelID] = true
}

// Roles implements platform.Directory.
func (p *Platform) Roles(_ context.Context, guildID string) ([]platform.Role, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]platform.Role(nil), p.roles[guildID]...), nil
}

// TextChannels implements platform.Directory.
func (p *Platform) TextChannels(_ context.Context, guildID string) ([]platform.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]platform.Channel(nil), p.channels[guildID]...), nil
}

// Send implements platform.Sender.
func (p *Platform) Send(_ context.Context, guildID string, msg platform.Message) (platform.Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failing[msg.ChannelID] {
		return platform.Receipt{}, ErrSendFailed
	}
	p.nextID++
	r := platform.Receipt{GuildID: guildID, ChannelID: msg.ChannelID, MessageID: strconv.Itoa(p.nextID)}
	p.sent = append(p.sent, Sent{GuildID: guildID, Message: msg, Receipt: r})
	return r, nil
}

// Sent returns every delivered message in order.
func (p *Platform) Sent() []Sent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Sent(nil), p.sent...)
}

// SentTo returns the messages delivered to channelID.
func (p *Platform) SentTo(channelID string) []platform.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []platform.Message
	for _, s := range p.sent {
		if s.Message.ChannelID == channelID {
			out = append(out, s.Message)
		}
	}
	return out
}
