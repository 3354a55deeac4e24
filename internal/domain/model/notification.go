package model

import "time"

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
	NotificationInfo    NotificationKind = "info"
)

// Notification is one user-visible signal kept for display. IDs are ULIDs so
// the feed sorts by emission time.
type Notification struct {
	ID      string           `json:"id"`
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
	At      time.Time        `json:"at"`
}
