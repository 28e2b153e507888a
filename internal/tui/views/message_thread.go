package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/SarahGBoland/FriendSnap/internal/thread"
)

// MessageThread displays the message history for one conversation.
// Confirmed entries render plainly; pending sends carry a state marker
// until a poll promotes or fails them.
type MessageThread struct {
	*tview.TextView
	selfID      string
	partnerName string
}

// NewMessageThread creates a new thread view.
func NewMessageThread() *MessageThread {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Messages ")

	return &MessageThread{TextView: tv}
}

// SetSelfID tells the view which sender id is "You".
func (mt *MessageThread) SetSelfID(id string) {
	mt.selfID = id
}

// SetPartnerName updates the title with the partner's display name.
func (mt *MessageThread) SetPartnerName(name string) {
	mt.partnerName = name
	mt.SetTitle(fmt.Sprintf(" %s ", name))
}

// SetBlocked marks the title to show polling has stopped.
func (mt *MessageThread) SetBlocked() {
	mt.SetTitle(fmt.Sprintf(" %s [red](blocked)[-] ", mt.partnerName))
}

// Update refreshes the view with the current thread entries.
func (mt *MessageThread) Update(entries []thread.Entry) {
	mt.Clear()

	for _, e := range entries {
		sender := mt.partnerName
		if e.SenderID == mt.selfID {
			sender = "You"
		}

		marker := ""
		if e.Pending {
			switch e.State {
			case thread.StateFailed:
				marker = " [red]! not delivered[-]"
			default:
				marker = " [::d]...[-:-:-]"
			}
		}

		ts := formatTimestamp(e.CreatedAt)
		line := fmt.Sprintf("[::b]%s[-:-:-] [::d]%s[-:-:-]%s\n%s\n\n",
			sender, ts, marker, sanitizeForTerminal(e.Content))
		_, _ = fmt.Fprint(mt, line)
	}

	mt.ScrollToEnd()
}
