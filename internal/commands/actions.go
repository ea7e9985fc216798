package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/TripodGG/aegis-discord-bot/internal/flow"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
)

func (h *Handler) handleReport(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	member, ok := memberFrom(s, i)
	if !ok {
		return respond(s, i, "Use in a server.")
	}
	data := i.ApplicationCommandData()
	req := flow.Request{
		Kind:         flow.KindReport,
		GuildID:      i.GuildID,
		ChannelID:    i.ChannelID,
		Invoker:      member,
		Offender:     resolvedUser(data, "offender"),
		TargetRoleID: optionID(data, "target_role"),
	}
	return h.beginFlow(s, i, req)
}

func (h *Handler) handleDeclare(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	member, ok := memberFrom(s, i)
	if !ok {
		return respond(s, i, "Use in a server.")
	}
	data := i.ApplicationCommandData()
	req := flow.Request{
		Kind:         flow.KindDeclare,
		GuildID:      i.GuildID,
		ChannelID:    i.ChannelID,
		Invoker:      member,
		TargetRoleID: optionID(data, "target"),
	}
	return h.beginFlow(s, i, req)
}

// beginFlow answers privately on any refusal, or opens the details form.
func (h *Handler) beginFlow(s *discordgo.Session, i *discordgo.InteractionCreate, req flow.Request) error {
	ticket, err := h.flows.Begin(context.Background(), req)
	if err != nil {
		if msg, ok := refusal(err); ok {
			return respond(s, i, msg)
		}
		return err
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: detailsModal(ticket.ID, "Provide Details"),
	})
	if err != nil {
		_ = h.flows.Abandon(ticket.ID, req.Invoker.UserID)
		return fmt.Errorf("failed to open details form: %w", err)
	}
	return nil
}

func (h *Handler) handleDetailsSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	data := i.ModalSubmitData()
	ticketID, ok := parseFlowCustomID(data.CustomID)
	if !ok {
		return fmt.Errorf("malformed form id %q", data.CustomID)
	}
	member, ok := memberFrom(s, i)
	if !ok {
		return respond(s, i, "Use in a server.")
	}

	out, err := h.flows.Submit(context.Background(), ticketID, member.UserID, modalDetails(data))
	if err != nil {
		if msg, ok := refusal(err); ok {
			return respond(s, i, msg)
		}
		return err
	}
	return respond(s, i, postedMessage(out))
}

// refusal maps the errors a member can cause to the text shown to them.
func refusal(err error) (string, bool) {
	var denied *flow.DeniedError
	switch {
	case errors.As(err, &denied):
		return denied.Reason.Message(), true
	case errors.Is(err, flow.ErrNotConfigured):
		return "No configuration saved yet. Ask an admin to run `/setup`.", true
	case errors.Is(err, flow.ErrInvalidTarget),
		errors.Is(err, flow.ErrEmptyDetails),
		errors.Is(err, flow.ErrDetailsTooLong):
		return "❌ " + capitalize(err.Error()) + ".", true
	case errors.Is(err, flow.ErrExpired):
		return "⏱️ This form has expired. Run the command again.", true
	case errors.Is(err, flow.ErrNotOwner):
		return "This form belongs to another member.", true
	default:
		return "", false
	}
}

func postedMessage(out flow.Outcome) string {
	links := make([]string, 0, len(out.Receipts))
	for _, r := range out.Receipts {
		links = append(links, fmt.Sprintf("%s (jump: %s)", platform.ChannelMention(r.ChannelID), r.JumpURL()))
	}
	msg := "Posted in " + strings.Join(links, " and ") + "."
	for _, w := range out.Warnings {
		msg += "\n⚠️ " + w
	}
	return msg
}

func optionID(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name {
			if id, ok := opt.Value.(string); ok {
				return id
			}
		}
	}
	return ""
}

// resolvedUser looks up a user option in the resolved data to learn whether it is a bot.
func resolvedUser(data discordgo.ApplicationCommandInteractionData, name string) platform.Member {
	id := optionID(data, name)
	m := platform.Member{UserID: id}
	if data.Resolved != nil {
		if u, ok := data.Resolved.Users[id]; ok {
			m.Bot = u.Bot
		}
		if gm, ok := data.Resolved.Members[id]; ok {
			m.RoleIDs = gm.Roles
		}
	}
	return m
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
