package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/SarahGBoland/FriendSnap/internal/api"
	"github.com/SarahGBoland/FriendSnap/internal/config"
	"github.com/SarahGBoland/FriendSnap/internal/photo"
	"github.com/SarahGBoland/FriendSnap/internal/session"
)

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	sessionName := session.Resolve(*sessionFlag)
	if err := session.ValidateName(sessionName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	c := newClient()
	if token, err := session.LoadToken(sessionName); err == nil {
		c.SetToken(token)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch args[0] {
	case "login":
		cmdLogin(ctx, c, sessionName, args[1:])
	case "register":
		cmdRegister(ctx, c, sessionName, args[1:])
	case "logout":
		cmdLogout(sessionName)
	case "whoami":
		cmdWhoami(ctx, c, *jsonFlag)
	case "conversations":
		cmdConversations(ctx, c, *jsonFlag)
	case "thread":
		cmdThread(ctx, c, *jsonFlag, args[1:])
	case "send":
		cmdSend(ctx, c, args[1:])
	case "friends":
		cmdFriends(ctx, c, *jsonFlag)
	case "suggestions":
		cmdSuggestions(ctx, c, *jsonFlag)
	case "requests":
		cmdRequests(ctx, c, *jsonFlag)
	case "add-friend":
		cmdAddFriend(ctx, c, args[1:])
	case "accept":
		cmdAccept(ctx, c, args[1:])
	case "upload":
		cmdUpload(ctx, c, args[1:])
	case "feed":
		cmdFeed(ctx, c, *jsonFlag)
	case "report":
		cmdReport(ctx, c, args[1:])
	case "block":
		cmdBlock(ctx, c, args[1:])
	case "unblock":
		cmdUnblock(ctx, c, args[1:])
	case "avatars":
		cmdAvatars(ctx, c, *jsonFlag)
	case "health":
		cmdHealth(ctx, c)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func newClient() *api.Client {
	baseURL := ""
	if cfg, err := config.Load(session.ConfigPath()); err == nil {
		baseURL = cfg.BaseURL
	}
	if envURL := os.Getenv("FRIENDSNAP_BASE_URL"); envURL != "" {
		baseURL = envURL
	}
	return api.New(baseURL)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: friendsnapctl [--session <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  login <nickname> <password>             Sign in and store the token")
	fmt.Fprintln(os.Stderr, "  register <nickname> <password> [avatar] Create an account")
	fmt.Fprintln(os.Stderr, "  logout                                  Discard the stored token")
	fmt.Fprintln(os.Stderr, "  whoami                                  Show the signed-in user")
	fmt.Fprintln(os.Stderr, "  conversations                           List conversations")
	fmt.Fprintln(os.Stderr, "  thread <partner-id>                     Show a message thread")
	fmt.Fprintln(os.Stderr, "  send <partner-id> <text>                Send a message")
	fmt.Fprintln(os.Stderr, "  friends                                 List friends")
	fmt.Fprintln(os.Stderr, "  suggestions                             List friend suggestions")
	fmt.Fprintln(os.Stderr, "  requests                                List incoming friend requests")
	fmt.Fprintln(os.Stderr, "  add-friend <user-id>                    Send a friend request")
	fmt.Fprintln(os.Stderr, "  accept <request-id>                     Accept a friend request")
	fmt.Fprintln(os.Stderr, "  upload <file> [category] [description]  Upload a photo")
	fmt.Fprintln(os.Stderr, "  feed                                    Show the photo feed")
	fmt.Fprintln(os.Stderr, "  report <user-id> [reason]               Report a user")
	fmt.Fprintln(os.Stderr, "  block <user-id>                         Block a user")
	fmt.Fprintln(os.Stderr, "  unblock <user-id>                       Unblock a user")
	fmt.Fprintln(os.Stderr, "  avatars                                 List selectable avatars")
	fmt.Fprintln(os.Stderr, "  health                                  Check backend health")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func requireArgs(args []string, n int, usage string) {
	if len(args) < n {
		fmt.Fprintln(os.Stderr, "usage: friendsnapctl "+usage)
		os.Exit(1)
	}
}

func cmdLogin(ctx context.Context, c *api.Client, sessionName string, args []string) {
	requireArgs(args, 2, "login <nickname> <password>")
	resp, err := c.Login(ctx, args[0], args[1])
	if err != nil {
		fatal(err)
	}
	if err := session.SaveToken(sessionName, resp.Token); err != nil {
		fatal(err)
	}
	fmt.Printf("Signed in as %s (%s)\n", resp.User.Nickname, resp.User.ID)
}

func cmdRegister(ctx context.Context, c *api.Client, sessionName string, args []string) {
	requireArgs(args, 2, "register <nickname> <password> [avatar-url]")
	avatarURL := ""
	if len(args) >= 3 {
		avatarURL = args[2]
	}
	resp, err := c.Register(ctx, args[0], avatarURL, args[1])
	if err != nil {
		fatal(err)
	}
	if err := session.SaveToken(sessionName, resp.Token); err != nil {
		fatal(err)
	}
	fmt.Printf("Registered as %s (%s)\n", resp.User.Nickname, resp.User.ID)
}

func cmdLogout(sessionName string) {
	if err := session.ClearToken(sessionName); err != nil {
		fatal(err)
	}
	fmt.Println("Signed out.")
}

func cmdWhoami(ctx context.Context, c *api.Client, jsonOut bool) {
	me, err := c.Me(ctx)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(me)
		return
	}
	fmt.Printf("Nickname: %s\n", me.Nickname)
	fmt.Printf("ID:       %s\n", me.ID)
	fmt.Printf("Avatar:   %s\n", me.AvatarURL)
}

func cmdConversations(ctx context.Context, c *api.Client, jsonOut bool) {
	convos, err := c.Conversations(ctx)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(convos)
		return
	}
	if len(convos) == 0 {
		fmt.Println("No conversations.")
		return
	}
	for _, conv := range convos {
		unread := ""
		if conv.UnreadCount > 0 {
			unread = fmt.Sprintf(" (%d unread)", conv.UnreadCount)
		}
		fmt.Printf("%-20s %s%s\n", conv.Partner.Nickname, conv.LastMessage.Content, unread)
	}
}

func cmdThread(ctx context.Context, c *api.Client, jsonOut bool, args []string) {
	requireArgs(args, 1, "thread <partner-id>")
	msgs, err := c.Thread(ctx, args[0])
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(msgs)
		return
	}
	for _, m := range msgs {
		fmt.Printf("[%s] %s: %s\n", m.CreatedAt, m.SenderID, m.Content)
	}
}

func cmdSend(ctx context.Context, c *api.Client, args []string) {
	requireArgs(args, 2, "send <partner-id> <text>")
	msg, err := c.SendMessage(ctx, args[0], args[1], api.MessageTypeText)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Sent (id %s)\n", msg.ID)
}

func cmdFriends(ctx context.Context, c *api.Client, jsonOut bool) {
	friends, err := c.Friends(ctx)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(friends)
		return
	}
	if len(friends) == 0 {
		fmt.Println("No friends yet.")
		return
	}
	for _, f := range friends {
		fmt.Printf("%-20s %s\n", f.Nickname, f.ID)
	}
}

func cmdSuggestions(ctx context.Context, c *api.Client, jsonOut bool) {
	suggestions, err := c.Suggestions(ctx)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(suggestions)
		return
	}
	for _, s := range suggestions {
		fmt.Printf("%-20s %s  score %.0f\n", s.User.Nickname, s.User.ID, s.MatchScore)
	}
}

func cmdRequests(ctx context.Context, c *api.Client, jsonOut bool) {
	requests, err := c.FriendRequests(ctx)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(requests)
		return
	}
	if len(requests) == 0 {
		fmt.Println("No pending requests.")
		return
	}
	for _, r := range requests {
		sender := r.SenderID
		if r.Sender != nil {
			sender = r.Sender.Nickname
		}
		fmt.Printf("%-20s request %s\n", sender, r.ID)
	}
}

func cmdAddFriend(ctx context.Context, c *api.Client, args []string) {
	requireArgs(args, 1, "add-friend <user-id>")
	if err := c.SendFriendRequest(ctx, args[0]); err != nil {
		fatal(err)
	}
	fmt.Println("Friend request sent.")
}

func cmdAccept(ctx context.Context, c *api.Client, args []string) {
	requireArgs(args, 1, "accept <request-id>")
	if err := c.AcceptFriendRequest(ctx, args[0]); err != nil {
		fatal(err)
	}
	fmt.Println("Friend request accepted.")
}

func cmdUpload(ctx context.Context, c *api.Client, args []string) {
	requireArgs(args, 1, "upload <file> [category] [description]")
	category, description := "", ""
	if len(args) >= 2 {
		category = args[1]
	}
	if len(args) >= 3 {
		description = args[2]
	}
	encoded, err := photo.EncodeFile(args[0])
	if err != nil {
		fatal(err)
	}
	p, err := c.UploadPhoto(ctx, encoded, category, description)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Uploaded (id %s, approved %v)\n", p.ID, p.IsApproved)
}

func cmdFeed(ctx context.Context, c *api.Client, jsonOut bool) {
	photos, err := c.Feed(ctx)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(photos)
		return
	}
	for _, p := range photos {
		owner := p.UserID
		if p.User != nil {
			owner = p.User.Nickname
		}
		fmt.Printf("%-20s %s  %s\n", owner, p.Category, p.Description)
	}
}

func cmdReport(ctx context.Context, c *api.Client, args []string) {
	requireArgs(args, 1, "report <user-id> [reason]")
	reason := "inappropriate behavior"
	if len(args) >= 2 {
		reason = args[1]
	}
	if err := c.Report(ctx, args[0], "", reason); err != nil {
		fatal(err)
	}
	fmt.Println("Report submitted.")
}

func cmdBlock(ctx context.Context, c *api.Client, args []string) {
	requireArgs(args, 1, "block <user-id>")
	if err := c.Block(ctx, args[0]); err != nil {
		fatal(err)
	}
	fmt.Println("User blocked.")
}

func cmdUnblock(ctx context.Context, c *api.Client, args []string) {
	requireArgs(args, 1, "unblock <user-id>")
	if err := c.Unblock(ctx, args[0]); err != nil {
		fatal(err)
	}
	fmt.Println("User unblocked.")
}

func cmdAvatars(ctx context.Context, c *api.Client, jsonOut bool) {
	avatars, err := c.Avatars(ctx)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(avatars)
		return
	}
	for _, a := range avatars {
		fmt.Printf("%-16s %s\n", a.Name, a.URL)
	}
}

func cmdHealth(ctx context.Context, c *api.Client) {
	if err := c.Health(ctx); err != nil {
		fatal(err)
	}
	fmt.Println("Backend is healthy.")
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}
