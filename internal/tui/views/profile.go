package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/SarahGBoland/FriendSnap/internal/api"
)

// ProfileView shows the signed-in user and a scannable QR code that
// encodes their friend-add link.
type ProfileView struct {
	*tview.TextView
}

// NewProfileView creates the profile view.
func NewProfileView() *ProfileView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true).SetTitle(" Profile ")

	return &ProfileView{TextView: tv}
}

// Show renders the user's profile and friend-add QR code.
func (pv *ProfileView) Show(u *api.User) {
	pv.Clear()
	if u == nil {
		_, _ = fmt.Fprint(pv, "\n\nNot signed in")
		return
	}

	ascii := renderQR("friendsnap://add/" + u.ID)
	_, _ = fmt.Fprintf(pv, "\n  [::b]%s[-:-:-]\n  id: %s\n\n  Friends scan this to add you:\n\n%s",
		sanitizeForTerminal(u.Nickname), u.ID, ascii)
}

// renderQR converts a string to a compact ASCII QR code using Unicode
// half-block characters.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "  (QR generation failed: " + err.Error() + ")"
	}
	qr.DisableBorder = false

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder

	for y := 0; y < rows; y += 2 {
		sb.WriteString("  ")
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := false
			if y+1 < rows {
				bot = bitmap[y+1][x]
			}
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top && !bot:
				sb.WriteRune('▀')
			case !top && bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}

	return sb.String()
}
