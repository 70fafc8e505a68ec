// File: internal/services/chat/errors.go
package chat

import "errors"

var (
	// ErrEmptyMessage rejects a blank or whitespace-only message before any
	// state is written or any agent work starts.
	ErrEmptyMessage = errors.New("message is required")

	// ErrConversationNotFound means the referenced conversation does not
	// exist at all.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrAccessDenied means the conversation exists but belongs to another
	// user.
	ErrAccessDenied = errors.New("access denied")
)
