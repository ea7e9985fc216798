package commands

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/TripodGG/aegis-discord-bot/internal/logging"
	"github.com/TripodGG/aegis-discord-bot/internal/wizard"
)

func (h *Handler) handleSetup(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	member, ok := memberFrom(s, i)
	if !ok {
		return respond(s, i, "Use this in a server.")
	}
	if !member.Administrator {
		return respond(s, i, "Admin only.")
	}

	session, err := h.wizards.Open(context.Background(), i.GuildID, wizard.Actor{UserID: member.UserID, Administrator: true})
	if err != nil {
		return err
	}
	h.track(session.ID(), i.Interaction)

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    panelContent(pageRoles, ""),
			Components: renderPanel(session.View(), pageRoles),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
}

func (h *Handler) handleSetupComponent(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	data := i.MessageComponentData()
	action, err := parseSetupCustomID(data.CustomID)
	if err != nil {
		return err
	}
	member, ok := memberFrom(s, i)
	if !ok {
		return respond(s, i, "Use this in a server.")
	}
	actor := wizard.Actor{UserID: member.UserID, Administrator: member.Administrator}

	if action.Action == actionPage {
		session, ok := h.wizards.Get(action.SessionID)
		if !ok {
			return h.closePanel(s, i, action.SessionID, inactivePanel)
		}
		if actor.UserID != session.OwnerID() && !actor.Administrator {
			return respond(s, i, wizard.ErrForbidden.Error()+".")
		}
		h.track(action.SessionID, i.Interaction)
		return updatePanel(s, i, session.View(), action.Page, "")
	}

	var ev wizard.Event
	switch action.Action {
	case actionSelect:
		ev = wizard.Select{By: actor, Field: action.Field, Values: data.Values}
	case actionSave:
		ev = wizard.Save{By: actor}
	case actionCancel:
		ev = wizard.Cancel{By: actor}
	}

	res, err := h.wizards.Handle(context.Background(), action.SessionID, ev)
	reply := setupReply(res, err)
	switch reply.kind {
	case replyPrivate:
		return respond(s, i, reply.text)
	case replyClose:
		return h.closePanel(s, i, action.SessionID, reply.text)
	default:
		if reply.failed {
			logging.Error("Setup session %s failed: %v", action.SessionID, err)
		}
		h.track(action.SessionID, i.Interaction)
		return h.refreshPanel(s, i, action, reply.text)
	}
}

type replyKind int

const (
	// replyRefresh re-renders the panel with text as its notice.
	replyRefresh replyKind = iota
	// replyPrivate answers only the clicking member and leaves the panel alone.
	replyPrivate
	// replyClose replaces the panel with text and ends it.
	replyClose
)

type panelReply struct {
	kind   replyKind
	text   string
	failed bool
}

const inactivePanel = "This setup panel is no longer active. Run `/setup` again."

// setupReply decides how the panel answers the outcome of one wizard event.
func setupReply(res wizard.Result, err error) panelReply {
	var verr *wizard.ValidationError
	switch {
	case errors.Is(err, wizard.ErrForbidden):
		return panelReply{kind: replyPrivate, text: err.Error() + "."}
	case errors.Is(err, wizard.ErrUnknownSession), errors.Is(err, wizard.ErrClosed):
		return panelReply{kind: replyClose, text: inactivePanel}
	case errors.As(err, &verr):
		return panelReply{kind: replyRefresh, text: verr.Message}
	case err != nil:
		return panelReply{kind: replyRefresh, text: "Failed to save configuration, please try again.", failed: true}
	}

	switch res.State {
	case wizard.StateSaved:
		return panelReply{kind: replyClose, text: "✅ Saved configuration.\n" + res.Summary +
			"\n_Tip: Make the log channel private for staff only._"}
	case wizard.StateCancelled:
		return panelReply{kind: replyClose, text: "❌ Setup cancelled. Nothing was changed."}
	case wizard.StateExpired:
		return panelReply{kind: replyClose, text: inactivePanel}
	default:
		return panelReply{kind: replyRefresh}
	}
}

func (h *Handler) refreshPanel(s *discordgo.Session, i *discordgo.InteractionCreate, action setupAction, notice string) error {
	session, ok := h.wizards.Get(action.SessionID)
	if !ok {
		return h.closePanel(s, i, action.SessionID, inactivePanel)
	}
	p := action.Page
	if action.Action == actionSave {
		p = pageChannels
	}
	return updatePanel(s, i, session.View(), p, notice)
}

func updatePanel(s *discordgo.Session, i *discordgo.InteractionCreate, v wizard.View, p page, notice string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    panelContent(p, notice),
			Components: renderPanel(v, p),
		},
	})
}

// closePanel replaces the panel with a final status and strips its components.
func (h *Handler) closePanel(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, content string) error {
	h.untrack(sessionID)
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:         content,
			Components:      []discordgo.MessageComponent{},
			AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
		},
	})
}

func (h *Handler) track(sessionID string, i *discordgo.Interaction) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panels[sessionID] = i
}

func (h *Handler) untrack(sessionID string) *discordgo.Interaction {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.panels[sessionID]
	delete(h.panels, sessionID)
	return i
}

// OnSetupExpired marks a timed-out panel as inactive.
func (h *Handler) OnSetupExpired(session *wizard.Session) {
	i := h.untrack(session.ID())
	if i == nil || h.discord == nil {
		return
	}
	content := "⏱️ Setup timed out. Nothing was changed; run `/setup` again."
	empty := []discordgo.MessageComponent{}
	if _, err := h.discord.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &empty,
	}); err != nil {
		logging.Warn("Failed to mark setup session %s as timed out: %v", session.ID(), err)
	}
}
