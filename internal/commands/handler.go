// Package commands serves the slash commands and translates Discord
// interactions into wizard events and flow submissions.
package commands

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/TripodGG/aegis-discord-bot/internal/database"
	"github.com/TripodGG/aegis-discord-bot/internal/flow"
	"github.com/TripodGG/aegis-discord-bot/internal/logging"
	"github.com/TripodGG/aegis-discord-bot/internal/platform"
	"github.com/TripodGG/aegis-discord-bot/internal/wizard"
)

// Handler manages all command interactions
type Handler struct {
	discord   *discordgo.Session
	store     database.Store
	directory platform.Directory
	wizards   *wizard.Manager
	flows     *flow.Service

	mu sync.Mutex
	// panels holds the latest interaction that touched each setup panel, the
	// only handle that can still edit the ephemeral message.
	panels map[string]*discordgo.Interaction
}

func NewHandler(discord *discordgo.Session, store database.Store, directory platform.Directory, wizards *wizard.Manager, flows *flow.Service) *Handler {
	return &Handler{
		discord:   discord,
		store:     store,
		directory: directory,
		wizards:   wizards,
		flows:     flows,
		panels:    make(map[string]*discordgo.Interaction),
	}
}

// HandleInteraction routes all interactions (commands, dropdowns, buttons, modals)
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		h.handleComponent(s, i)
	case discordgo.InteractionModalSubmit:
		h.handleModal(s, i)
	}
}

// handleCommand routes slash commands to their handlers
func (h *Handler) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	var err error
	switch data.Name {
	case "setup":
		err = h.handleSetup(s, i)
	case "config":
		err = h.handleConfigShow(s, i)
	case "roe":
		err = h.handleReport(s, i)
	case "declare":
		err = h.handleDeclare(s, i)
	default:
		err = fmt.Errorf("unknown command: %s", data.Name)
	}

	if err != nil {
		logging.Error("Command error [%s]: %v", data.Name, err)
		respondError(s, i, err.Error())
	}
}

// handleComponent routes component interactions (buttons, dropdowns)
func (h *Handler) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()

	var err error
	switch {
	case strings.HasPrefix(data.CustomID, setupPrefix+":"):
		err = h.handleSetupComponent(s, i)
	default:
		err = fmt.Errorf("unknown component: %s", data.CustomID)
	}

	if err != nil {
		logging.Error("Component error [%s]: %v", data.CustomID, err)
		respondError(s, i, err.Error())
	}
}

func (h *Handler) handleModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()

	var err error
	switch {
	case strings.HasPrefix(data.CustomID, flowPrefix+":"):
		err = h.handleDetailsSubmit(s, i)
	default:
		err = fmt.Errorf("unknown modal: %s", data.CustomID)
	}

	if err != nil {
		logging.Error("Modal error [%s]: %v", data.CustomID, err)
		respondError(s, i, err.Error())
	}
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         content,
			Flags:           discordgo.MessageFlagsEphemeral,
			AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
		},
	})
}

// respondError sends an ephemeral error message
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if err := respond(s, i, "❌ Error: "+message); err != nil {
		logging.Warn("Failed to send error response: %v", err)
	}
}
