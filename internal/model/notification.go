package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxNotifications caps the activity log.
const MaxNotifications = 50

type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
)

// Notification is an activity-log entry, also used as the user-facing
// message of a command.
type Notification struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Time    time.Time        `json:"time"`
	Type    NotificationType `json:"type"`
	Unread  bool             `json:"unread"`
}

func NewNotification(typ NotificationType, title, message string, now time.Time) Notification {
	return Notification{
		ID:      uuid.NewString(),
		Title:   title,
		Message: message,
		Time:    now,
		Type:    typ,
		Unread:  true,
	}
}

// PushNotification returns a new log with n at the head, trimmed to MaxNotifications.
func PushNotification(log []Notification, n Notification) []Notification {
	size := min(len(log)+1, MaxNotifications)
	out := make([]Notification, 0, size)
	out = append(out, n)
	for _, old := range log {
		if len(out) == MaxNotifications {
			break
		}
		out = append(out, old)
	}
	return out
}
