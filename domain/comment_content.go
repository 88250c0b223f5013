package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxCommentContentLength is the upper bound on a comment body, in characters.
const MaxCommentContentLength = 1000

// CommentContent is the trimmed, validated body of a comment.
type CommentContent struct {
	value string
}

// NewCommentContent trims raw and rejects empty or oversized bodies.
func NewCommentContent(raw string) (CommentContent, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CommentContent{}, NewValidationError("content", "must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxCommentContentLength {
		return CommentContent{}, NewValidationError("content", "must be at most 1000 characters")
	}
	return CommentContent{value: trimmed}, nil
}

func (c CommentContent) Value() string {
	return c.value
}

func (c CommentContent) Equals(other CommentContent) bool {
	return c.value == other.value
}

func (c CommentContent) String() string {
	return c.value
}
