package api

// User is a FriendSnap account as returned by the directory endpoints.
// Immutable once fetched within a session; refreshed wholesale on re-fetch.
type User struct {
	ID        string `json:"id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
	CreatedAt string `json:"created_at"`
}

// Message type tags accepted by the backend.
const (
	MessageTypeText  = "text"
	MessageTypeEmoji = "emoji"
	MessageTypeImage = "image"
)

// Message is a server-acknowledged chat message.
type Message struct {
	ID          string `json:"id"`
	SenderID    string `json:"sender_id"`
	ReceiverID  string `json:"receiver_id"`
	Content     string `json:"content"`
	MessageType string `json:"message_type"`
	CreatedAt   string `json:"created_at"`
	IsRead      bool   `json:"is_read"`
}

// LastMessage is the preview entry inside a conversation summary.
type LastMessage struct {
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	IsMine    bool   `json:"is_mine"`
}

// Conversation is one entry of the conversation list view. UnreadCount is
// server-computed and treated as opaque by the client.
type Conversation struct {
	Partner     User        `json:"partner"`
	LastMessage LastMessage `json:"last_message"`
	UnreadCount int         `json:"unread_count"`
}

// FriendSuggestion is a match candidate from the backend's interest matcher.
type FriendSuggestion struct {
	User            User     `json:"user"`
	SharedInterests []string `json:"shared_interests"`
	MatchScore      float64  `json:"match_score"`
	SamplePhoto     string   `json:"sample_photo,omitempty"`
}

// FriendRequest is a pending friend request addressed to the current user.
type FriendRequest struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	Sender     *User  `json:"sender,omitempty"`
}

// Photo is an uploaded photo with its moderation outcome.
type Photo struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	ImageBase64 string   `json:"image_base64"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	CreatedAt   string   `json:"created_at"`
	IsApproved  bool     `json:"is_approved"`
	User        *User    `json:"user,omitempty"`
}

// Avatar is a selectable profile avatar.
type Avatar struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
