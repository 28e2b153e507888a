package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/SarahGBoland/FriendSnap/internal/api"
)

// ConversationList is the main conversation list view. Rows keep the
// exact order the backend returned; the server decides ranking.
type ConversationList struct {
	*tview.Table
	convos     []api.Conversation
	selectedFn func() (int, int)
}

// NewConversationList creates a new conversation list table.
func NewConversationList() *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Conversations ")

	cl := &ConversationList{Table: table}
	cl.selectedFn = table.GetSelection
	return cl
}

// Update refreshes the conversation list with new data.
func (cl *ConversationList) Update(convos []api.Conversation) {
	cl.convos = convos
	cl.Clear()

	// Header row.
	cl.SetCell(0, 0, tview.NewTableCell(" Friend").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 1, tview.NewTableCell(" Last Message").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 2, tview.NewTableCell(" Time").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, c := range convos {
		row := i + 1
		name := c.Partner.Nickname
		if name == "" {
			name = c.Partner.ID
		}
		if c.UnreadCount > 0 {
			name = fmt.Sprintf("* %s (%d)", name, c.UnreadCount)
		}

		preview := c.LastMessage.Content
		if c.LastMessage.IsMine {
			preview = "you: " + preview
		}

		cl.SetCell(row, 0, tview.NewTableCell(" "+sanitizeForTerminal(name)).SetMaxWidth(30).SetExpansion(1))
		cl.SetCell(row, 1, tview.NewTableCell(" "+sanitizeForTerminal(preview)).SetMaxWidth(40).SetExpansion(2))
		cl.SetCell(row, 2, tview.NewTableCell(" "+formatTimestamp(c.LastMessage.CreatedAt)).SetMaxWidth(12))
	}
}

// SelectedPartner returns the partner id of the currently selected row.
func (cl *ConversationList) SelectedPartner() string {
	row, _ := cl.selectedFn()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(cl.convos) {
		return cl.convos[idx].Partner.ID
	}
	return ""
}

// formatTimestamp renders an RFC 3339 server timestamp compactly: clock
// time for today, date otherwise.
func formatTimestamp(createdAt string) string {
	if createdAt == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	t = t.Local()
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}
