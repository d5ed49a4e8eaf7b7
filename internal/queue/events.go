package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the engagement stream
const (
	EventPostLiked          = "post_liked"
	EventPostCommented      = "post_commented"
	EventProfileCommented   = "profile_commented"
	EventProfileCommentLike = "profile_comment_liked"
)

// Stream names
const (
	StreamEngagement = "stream:engagement"
)

// Consumer group name for notification workers
const (
	ConsumerGroupNotifications = "notification_workers"
)

// EngagementEvent represents a like or comment published to the engagement
// stream. Workers turn these into notification rows for the content owner.
type EngagementEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	ActorID int64 `json:"actor_id"` // Who liked or commented
	OwnerID int64 `json:"owner_id"` // Who receives the notification

	// Post events
	PostID    *int64 `json:"post_id,omitempty"`
	PostTitle string `json:"post_title,omitempty"`

	// Comment events
	CommentID *int64 `json:"comment_id,omitempty"`

	// Profile events: whose page the comment lives on
	ProfileUserID *int64 `json:"profile_user_id,omitempty"`
}

// NewPostLikedEvent creates an event for when a member likes a post.
func NewPostLikedEvent(postID, actorID, ownerID int64, postTitle string) EngagementEvent {
	return EngagementEvent{
		Type:      EventPostLiked,
		Timestamp: time.Now().Unix(),
		ActorID:   actorID,
		OwnerID:   ownerID,
		PostID:    &postID,
		PostTitle: postTitle,
	}
}

// NewPostCommentedEvent creates an event for when a member comments on a post.
func NewPostCommentedEvent(postID, commentID, actorID, ownerID int64, postTitle string) EngagementEvent {
	return EngagementEvent{
		Type:      EventPostCommented,
		Timestamp: time.Now().Unix(),
		ActorID:   actorID,
		OwnerID:   ownerID,
		PostID:    &postID,
		PostTitle: postTitle,
		CommentID: &commentID,
	}
}

// NewProfileCommentedEvent creates an event for when a member writes on
// another member's page. The page owner is both owner and link target.
func NewProfileCommentedEvent(commentID, actorID, profileUserID int64) EngagementEvent {
	return EngagementEvent{
		Type:          EventProfileCommented,
		Timestamp:     time.Now().Unix(),
		ActorID:       actorID,
		OwnerID:       profileUserID,
		CommentID:     &commentID,
		ProfileUserID: &profileUserID,
	}
}

// NewProfileCommentLikedEvent creates an event for when a member likes a
// profile comment. The comment's author receives the notification; the link
// points at the page the comment lives on.
func NewProfileCommentLikedEvent(commentID, actorID, authorID, profileUserID int64) EngagementEvent {
	return EngagementEvent{
		Type:          EventProfileCommentLike,
		Timestamp:     time.Now().Unix(),
		ActorID:       actorID,
		OwnerID:       authorID,
		CommentID:     &commentID,
		ProfileUserID: &profileUserID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so the event is serialized to JSON
// in a "data" field.
func (e EngagementEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseEngagementEvent parses an EngagementEvent from Redis stream message values.
func ParseEngagementEvent(values map[string]interface{}) (EngagementEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return EngagementEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event EngagementEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return EngagementEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
