package frameflow

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// IDList is an ordered sequence of entity identifiers stored as a JSON
// array column. Ordering is whatever the client submitted last; it carries
// no meaning beyond the toggle classifier's last-element convention.
type IDList []uuid.UUID

// Value implements driver.Valuer.
func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		l = IDList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *IDList) Scan(src any) error {
	if src == nil {
		*l = IDList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported id list source type %T", src)
	}
}

// Contains reports membership of id in the list.
func (l IDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the list.
func (l IDList) Clone() IDList {
	out := make(IDList, len(l))
	copy(out, l)
	return out
}

// User is the account model. PasswordHash never leaves the process: it is
// excluded from JSON rendering and from token claims.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	PublicName    string     `bun:"public_name" json:"public_name,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	Avatar        string     `bun:"avatar" json:"avatar,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Follows       IDList     `bun:"follows,type:jsonb" json:"follows"`
	Visited       IDList     `bun:"visited,type:jsonb" json:"visited"`
	SavedPosts    IDList     `bun:"saved_posts,type:jsonb" json:"saved_posts"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Post is a photo post. Author is immutable after creation; the likedBy set
// is the only field other users may touch.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Author        uuid.UUID  `bun:"author,notnull,type:uuid" json:"author,omitempty"`
	Images        []string   `bun:"images,type:jsonb" json:"images"`
	Text          string     `bun:"text" json:"text,omitempty"`
	Location      string     `bun:"location" json:"location,omitempty"`
	LikedBy       IDList     `bun:"liked_by,type:jsonb" json:"liked_by"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Comment belongs to a post. Same ownership rule as Post.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cmt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Author        uuid.UUID  `bun:"author,notnull,type:uuid" json:"author,omitempty"`
	Post          uuid.UUID  `bun:"post,notnull,type:uuid" json:"post,omitempty"`
	Text          string     `bun:"text,notnull" json:"text"`
	LikedBy       IDList     `bun:"liked_by,type:jsonb" json:"liked_by"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// NotificationAction is the kind of edge a notification mirrors.
type NotificationAction = string

const (
	// ActionLike mirrors a like edge on a post or comment.
	ActionLike NotificationAction = "Like"
	// ActionFollow mirrors a follow edge between users.
	ActionFollow NotificationAction = "Follow"
)

// Notification mirrors a single follow or like edge. At most one row may
// exist per (to, from, action, liked_post) key; the row exists exactly as
// long as the edge does.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:ntf"`
	ID            uuid.UUID          `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	To            uuid.UUID          `bun:"to_user,notnull,type:uuid" json:"to,omitempty"`
	From          uuid.UUID          `bun:"from_user,notnull,type:uuid" json:"from,omitempty"`
	Action        NotificationAction `bun:"action,notnull" json:"action"`
	LikedPost     uuid.UUID          `bun:"liked_post,type:uuid" json:"liked_post,omitempty"`
	CreatedAt     *time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Key returns the edge key this notification mirrors.
func (n *Notification) Key() NotificationKey {
	return NotificationKey{
		To:        n.To,
		From:      n.From,
		Action:    n.Action,
		LikedPost: n.LikedPost,
	}
}

// NotificationKey identifies the edge a notification mirrors.
type NotificationKey struct {
	To        uuid.UUID
	From      uuid.UUID
	Action    NotificationAction
	LikedPost uuid.UUID
}
