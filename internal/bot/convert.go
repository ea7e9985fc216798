package bot

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/TripodGG/aegis-discord-bot/internal/platform"
)

func convertRoles(roles []*discordgo.Role) []platform.Role {
	out := make([]platform.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, platform.Role{ID: r.ID, Name: r.Name, Position: r.Position, Managed: r.Managed})
	}
	return out
}

// convertChannels keeps the channels a bot can post announcements in.
func convertChannels(channels []*discordgo.Channel) []platform.Channel {
	out := make([]platform.Channel, 0, len(channels))
	for _, c := range channels {
		if c.Type != discordgo.ChannelTypeGuildText && c.Type != discordgo.ChannelTypeGuildNews {
			continue
		}
		out = append(out, platform.Channel{ID: c.ID, Name: c.Name, Position: c.Position})
	}
	return out
}

// convertMessage turns off mention parsing entirely and re-enables only the
// explicit role and user ids, so nothing else in the text can ping.
func convertMessage(msg platform.Message) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content: msg.Content,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
			Roles: msg.Mentions.Roles,
			Users: msg.Mentions.Users,
		},
	}
	if msg.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{convertEmbed(msg.Embed)}
	}
	return send
}

func convertEmbed(e *platform.Embed) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if e.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	if !e.Timestamp.IsZero() {
		embed.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}
	return embed
}
