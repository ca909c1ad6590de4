package models

import (
	"bytes"
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationOrder     NotificationType = "ORDER"
	NotificationPromotion NotificationType = "PROMOTION"
	NotificationSystem    NotificationType = "SYSTEM"
)

type Notification struct {
	ID             int64            `json:"id"`
	UserID         string           `json:"userId"`
	Message        string           `json:"message"`
	Type           NotificationType `json:"type"`
	IsRead         bool             `json:"isRead"`
	CreatedAt      time.Time        `json:"createdAt"`
	AdditionalData json.RawMessage  `json:"additionalData,omitempty"`
}

// UnmarshalJSON accepts the legacy read-flag encodings still emitted by older
// producers: `isRead: true`, `read: 1`, `read: "1"` and `read: "true"` all
// mean read. Everything downstream sees the canonical IsRead field only.
func (n *Notification) UnmarshalJSON(data []byte) error {
	type alias Notification
	aux := struct {
		*alias
		IsRead json.RawMessage `json:"isRead"`
		Read   json.RawMessage `json:"read"`
	}{alias: (*alias)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	n.IsRead = normalizeReadFlag(aux.IsRead, aux.Read)
	return nil
}

func normalizeReadFlag(isRead, read json.RawMessage) bool {
	if bytes.Equal(bytes.TrimSpace(isRead), []byte("true")) {
		return true
	}
	r := bytes.TrimSpace(read)
	switch string(r) {
	case "1", `"1"`, `"true"`:
		return true
	}
	return false
}
