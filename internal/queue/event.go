// Package queue defines the message payloads exchanged over the broker and
// the publisher/consumer pair that moves them between the API server and
// the notifier.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/devboard/devboard/internal/model"
)

// PostCreatedQueue is the durable queue carrying PostCreatedEvent messages.
const PostCreatedQueue = "post.created"

// PostCreatedEvent is published when a post is created. It carries enough
// information for the notifier to fan out notifications without querying
// the posts table.
type PostCreatedEvent struct {
	EventID    string `json:"event_id"`
	PostID     uint64 `json:"post_id"`
	ThemeID    uint64 `json:"theme_id"`
	ThemeTitle string `json:"theme_title"`
	AuthorID   uint64 `json:"author_id"`
	AuthorName string `json:"author_name"`
	Title      string `json:"title"`
	CreatedAt  string `json:"created_at"`
}

// NewPostCreatedEvent builds the event for a freshly inserted post.
func NewPostCreatedEvent(p model.Post, themeTitle string) PostCreatedEvent {
	return PostCreatedEvent{
		EventID:    uuid.NewString(),
		PostID:     p.ID,
		ThemeID:    p.ThemeID,
		ThemeTitle: themeTitle,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		Title:      p.Title,
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
