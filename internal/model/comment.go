package model

import "time"

// CommentState is the moderation state of a comment.
type CommentState int

const (
	CommentPending  CommentState = 0
	CommentApproved CommentState = 1
	CommentRejected CommentState = -1
)

// Comment is a viewer comment attached to a player.
type Comment struct {
	ID          int64        `json:"id"`
	PlayerID    int64        `json:"playerId"`
	ParentID    int64        `json:"parentId"`
	UserID      int64        `json:"userId"`
	AuthorName  string       `json:"author"`
	AuthorEmail string       `json:"authorEmail,omitempty"`
	AuthorIP    string       `json:"-"`
	Content     string       `json:"content"`
	Approved    CommentState `json:"approved"`
	CreatedAt   time.Time    `json:"date"`
	Replies     []Comment    `json:"replies,omitempty"`
	PlayerTitle string       `json:"playerTitle,omitempty"`
}

// CommentAuthor identifies the person submitting a comment.
type CommentAuthor struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=200"`
}

// CommentRequest is the public add-comment body.
type CommentRequest struct {
	Comment string        `json:"comment" validate:"required,max=5000"`
	Author  CommentAuthor `json:"author" validate:"required"`
}

// ReplyRequest is the admin reply body.
type ReplyRequest struct {
	Reply  string         `json:"reply" validate:"required,max=5000"`
	Author *CommentAuthor `json:"author,omitempty" validate:"omitempty"`
}

// CommentAuthorSummary is one user that submitted comments.
type CommentAuthorSummary struct {
	UserEmail   string    `json:"user_email"`
	UserName    string    `json:"user_name"`
	UserIP      string    `json:"user_ip"`
	UserID      string    `json:"user_id"`
	CommentDate time.Time `json:"comment_date"`
	Content     string    `json:"comment_content"`
}
