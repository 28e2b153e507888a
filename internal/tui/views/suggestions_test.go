package views

import (
	"strings"
	"testing"

	"github.com/SarahGBoland/FriendSnap/internal/api"
)

func TestSuggestionScoreShownRaw(t *testing.T) {
	sl := NewSuggestionList()
	sl.Update([]api.FriendSuggestion{
		{
			User:            api.User{ID: "u2", Nickname: "sam"},
			SharedInterests: []string{"hiking", "food"},
			MatchScore:      5,
		},
	})

	got := sl.GetCell(1, 2).Text
	if strings.TrimSpace(got) != "5" {
		t.Errorf("score cell = %q, want raw score 5", got)
	}
	if strings.Contains(got, "%") {
		t.Errorf("score cell %q must not render as a percentage", got)
	}
}

func TestSuggestionSelectedUser(t *testing.T) {
	sl := NewSuggestionList()
	sl.Update([]api.FriendSuggestion{
		{User: api.User{ID: "u2", Nickname: "sam"}},
		{User: api.User{ID: "u3", Nickname: "kim"}},
	})

	sl.Select(2, 0)
	if got := sl.SelectedUser(); got != "u3" {
		t.Errorf("SelectedUser() = %q, want u3", got)
	}
}
