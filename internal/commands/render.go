package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/TripodGG/aegis-discord-bot/internal/flow"
	"github.com/TripodGG/aegis-discord-bot/internal/wizard"
)

const (
	setupPrefix    = "setup"
	flowPrefix     = "flow"
	detailsInputID = "details"

	actionSelect = "select"
	actionSave   = "save"
	actionCancel = "cancel"
	actionPage   = "page"
)

// page splits the panel so each message stays within five component rows.
type page int

const (
	pageRoles page = iota
	pageChannels
)

func (p page) String() string {
	if p == pageChannels {
		return "channels"
	}
	return "roles"
}

func parsePage(s string) (page, bool) {
	switch s {
	case "roles":
		return pageRoles, true
	case "channels":
		return pageChannels, true
	default:
		return 0, false
	}
}

func pageOf(f wizard.Field) page {
	if f == wizard.FieldWarChannel || f == wizard.FieldAuditChannel {
		return pageChannels
	}
	return pageRoles
}

func (p page) fields() []wizard.Field {
	if p == pageChannels {
		return []wizard.Field{wizard.FieldWarChannel, wizard.FieldAuditChannel}
	}
	return []wizard.Field{wizard.FieldAllowedRoles, wizard.FieldExcludedRoles, wizard.FieldEscalationRole}
}

// setupAction is a decoded setup component id: setup:<session>:<action>[:<arg>].
type setupAction struct {
	SessionID string
	Action    string
	Field     wizard.Field
	Page      page
}

func setupCustomID(sessionID string, parts ...string) string {
	return strings.Join(append([]string{setupPrefix, sessionID}, parts...), ":")
}

func parseSetupCustomID(id string) (setupAction, error) {
	parts := strings.Split(id, ":")
	if len(parts) < 3 || parts[0] != setupPrefix || parts[1] == "" {
		return setupAction{}, fmt.Errorf("malformed setup component %q", id)
	}
	a := setupAction{SessionID: parts[1], Action: parts[2]}
	switch a.Action {
	case actionSave, actionCancel:
		if len(parts) != 3 {
			return setupAction{}, fmt.Errorf("malformed setup component %q", id)
		}
	case actionSelect:
		if len(parts) != 4 {
			return setupAction{}, fmt.Errorf("malformed setup component %q", id)
		}
		f, ok := wizard.ParseField(parts[3])
		if !ok {
			return setupAction{}, fmt.Errorf("unknown setup field %q", parts[3])
		}
		a.Field = f
		a.Page = pageOf(f)
	case actionPage:
		if len(parts) != 4 {
			return setupAction{}, fmt.Errorf("malformed setup component %q", id)
		}
		p, ok := parsePage(parts[3])
		if !ok {
			return setupAction{}, fmt.Errorf("unknown setup page %q", parts[3])
		}
		a.Page = p
	default:
		return setupAction{}, fmt.Errorf("unknown setup action %q", a.Action)
	}
	return a, nil
}

func flowCustomID(ticketID string) string {
	return flowPrefix + ":" + ticketID
}

func parseFlowCustomID(id string) (string, bool) {
	ticketID, ok := strings.CutPrefix(id, flowPrefix+":")
	return ticketID, ok && ticketID != ""
}

const setupHeader = "🔧 **Server Setup**\n" +
	"Choose Allowed/Excluded Roles, **Admiral Role** (optional), War Channel (optional), and a **Log Channel** (required).\n" +
	"_Tip: Make the log channel private for staff only._"

func panelContent(p page, notice string) string {
	var b strings.Builder
	b.WriteString(setupHeader)
	if p == pageChannels {
		b.WriteString("\n\n**Page 2/2:** Channels")
	} else {
		b.WriteString("\n\n**Page 1/2:** Roles")
	}
	if notice != "" {
		b.WriteString("\n\n⚠️ ")
		b.WriteString(notice)
	}
	return b.String()
}

// renderPanel lays out one page: its pickers, then Save, Cancel and the page switch.
func renderPanel(v wizard.View, p page) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for _, f := range p.fields() {
		pk, ok := v.Panel.Picker(f)
		if !ok {
			continue
		}
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{renderPicker(v.ID, pk)}})
	}

	other, label := pageChannels, "Channels ▶"
	if p == pageChannels {
		other, label = pageRoles, "◀ Roles"
	}
	rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{Label: "Save", Style: discordgo.SuccessButton, CustomID: setupCustomID(v.ID, actionSave)},
		discordgo.Button{Label: "Cancel", Style: discordgo.DangerButton, CustomID: setupCustomID(v.ID, actionCancel)},
		discordgo.Button{Label: label, Style: discordgo.SecondaryButton, CustomID: setupCustomID(v.ID, actionPage, other.String())},
	}})
	return rows
}

func renderPicker(sessionID string, pk wizard.Picker) discordgo.SelectMenu {
	menu := discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		CustomID:    setupCustomID(sessionID, actionSelect, pk.Field.String()),
		Placeholder: pk.Placeholder,
	}
	if len(pk.Options) == 0 {
		// Discord rejects empty menus.
		menu.Disabled = true
		menu.Placeholder = pk.Placeholder + " (nothing to choose)"
		menu.Options = []discordgo.SelectMenuOption{{Label: "Nothing available", Value: "unavailable"}}
		return menu
	}

	minValues := pk.MinValues
	menu.MinValues = &minValues
	menu.MaxValues = max(pk.MaxValues, 1)
	for _, o := range pk.Options {
		menu.Options = append(menu.Options, discordgo.SelectMenuOption{Label: o.Label, Value: o.Value, Default: o.Default})
	}
	return menu
}

func detailsModal(ticketID, title string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: flowCustomID(ticketID),
		Title:    title,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    detailsInputID,
					Label:       "Reason / Details",
					Style:       discordgo.TextInputParagraph,
					Placeholder: "Provide all relevant info…",
					Required:    true,
					MaxLength:   flow.MaxDetails,
				},
			}},
		},
	}
}

// modalDetails pulls the details input out of a submitted modal.
func modalDetails(data discordgo.ModalSubmitInteractionData) string {
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if in, ok := inner.(*discordgo.TextInput); ok && in.CustomID == detailsInputID {
				return in.Value
			}
		}
	}
	return ""
}
