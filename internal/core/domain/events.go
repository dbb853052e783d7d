package domain

import "time"

// UserRegisteredEvent is emitted after a user is persisted for the first time.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Name         string
	Email        string
	PhoneCount   int
	RegisteredAt time.Time
	Metadata     map[string]any
}

// UserUpdatedEvent is emitted after a successful profile update.
type UserUpdatedEvent struct {
	EventID   string
	UserID    string
	Name      string
	Email     string
	UpdatedAt time.Time
	Metadata  map[string]any
}

// UserDeletedEvent is emitted after a user and its phones are removed.
type UserDeletedEvent struct {
	EventID   string
	UserID    string
	DeletedAt time.Time
	Metadata  map[string]any
}
