package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/SarahGBoland/FriendSnap/internal/api"
)

// SuggestionList shows the backend's friend suggestions, ranked by the
// server's match score.
type SuggestionList struct {
	*tview.Table
	suggestions []api.FriendSuggestion
	selectedFn  func() (int, int)
}

// NewSuggestionList creates the suggestion table.
func NewSuggestionList() *SuggestionList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Suggested Friends (Enter:chat f:add friend) ")

	sl := &SuggestionList{Table: table}
	sl.selectedFn = table.GetSelection
	return sl
}

// Update refreshes the table with new suggestions.
func (sl *SuggestionList) Update(suggestions []api.FriendSuggestion) {
	sl.suggestions = suggestions
	sl.Clear()

	sl.SetCell(0, 0, tview.NewTableCell(" Nickname").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	sl.SetCell(0, 1, tview.NewTableCell(" Shared Interests").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	sl.SetCell(0, 2, tview.NewTableCell(" Score").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	// Match scores are unbounded server-side ranking weights, shown raw.
	for i, s := range suggestions {
		row := i + 1
		sl.SetCell(row, 0, tview.NewTableCell(" "+sanitizeForTerminal(s.User.Nickname)).SetMaxWidth(30).SetExpansion(1))
		sl.SetCell(row, 1, tview.NewTableCell(" "+strings.Join(s.SharedInterests, ", ")).SetMaxWidth(40).SetExpansion(2))
		sl.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf(" %.0f", s.MatchScore)).SetMaxWidth(8))
	}
}

// SelectedUser returns the user id of the selected suggestion.
func (sl *SuggestionList) SelectedUser() string {
	row, _ := sl.selectedFn()
	idx := row - 1
	if idx >= 0 && idx < len(sl.suggestions) {
		return sl.suggestions[idx].User.ID
	}
	return ""
}
