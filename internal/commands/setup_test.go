package commands

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TripodGG/aegis-discord-bot/internal/wizard"
)

func TestSetupReply(t *testing.T) {
	tests := []struct {
		name string
		res  wizard.Result
		err  error
		want panelReply
	}{
		{
			name: "stranger clicks",
			res:  wizard.Result{State: wizard.StateOpen},
			err:  wizard.ErrForbidden,
			want: panelReply{kind: replyPrivate, text: wizard.ErrForbidden.Error() + "."},
		},
		{
			name: "session gone",
			err:  wizard.ErrUnknownSession,
			want: panelReply{kind: replyClose, text: inactivePanel},
		},
		{
			name: "session already closed",
			res:  wizard.Result{State: wizard.StateCancelled},
			err:  wizard.ErrClosed,
			want: panelReply{kind: replyClose, text: inactivePanel},
		},
		{
			name: "missing log channel",
			res:  wizard.Result{State: wizard.StateOpen},
			err:  &wizard.ValidationError{Field: wizard.FieldAuditChannel, Message: "Please select a **Log Channel**."},
			want: panelReply{kind: replyRefresh, text: "Please select a **Log Channel**."},
		},
		{
			name: "store write failed",
			res:  wizard.Result{State: wizard.StateOpen},
			err:  fmt.Errorf("failed to save configuration: %w", errors.New("disk full")),
			want: panelReply{kind: replyRefresh, text: "Failed to save configuration, please try again.", failed: true},
		},
		{
			name: "saved",
			res:  wizard.Result{State: wizard.StateSaved, Summary: "**Allowed:** _none_"},
			want: panelReply{kind: replyClose, text: "✅ Saved configuration.\n**Allowed:** _none_\n_Tip: Make the log channel private for staff only._"},
		},
		{
			name: "cancelled",
			res:  wizard.Result{State: wizard.StateCancelled},
			want: panelReply{kind: replyClose, text: "❌ Setup cancelled. Nothing was changed."},
		},
		{
			name: "selection buffered",
			res:  wizard.Result{State: wizard.StateOpen},
			want: panelReply{kind: replyRefresh},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, setupReply(tt.res, tt.err))
		})
	}
}
