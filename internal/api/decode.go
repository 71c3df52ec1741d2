package api

import (
	"encoding/json"
	"time"

	"github.com/wanderstay/wander-chat/internal/chat"
)

// The backend is inconsistent about response shape: some endpoints return
// a bare record or array, others wrap it as {success, data}. Everything in
// this file exists so that inconsistency stays at the transport boundary
// and the chat package only ever sees clean types.

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// decodePayload unmarshals a response body into v, unwrapping the
// {success, data} envelope when present.
func decodePayload(body []byte, v any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, v)
	}
	return json.Unmarshal(body, v)
}

// apiErrorMessage extracts a human-readable error from a response body.
// Order: body "message", body "error", then the per-operation fallback.
func apiErrorMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fallback
}

// Wire records tolerate both Mongo-style "_id" and plain "id" keys.

type wireParticipant struct {
	MongoID   string `json:"_id"`
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar"`
}

func (w wireParticipant) participant() chat.Participant {
	return chat.Participant{
		ID:        firstNonEmpty(w.MongoID, w.ID),
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Avatar:    w.Avatar,
	}
}

type wireMessage struct {
	MongoID   string    `json:"_id"`
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (w wireMessage) stored() chat.StoredMessage {
	side := chat.SideContact
	if w.Role == string(chat.SideOwner) {
		side = chat.SideOwner
	}
	return chat.StoredMessage{
		ID:        firstNonEmpty(w.MongoID, w.ID),
		Side:      side,
		Body:      w.Message,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

type wireContact struct {
	MongoID     string          `json:"_id"`
	ID          string          `json:"id"`
	User        wireParticipant `json:"user"`
	ContactUser wireParticipant `json:"contactUser"`
	Messages    []wireMessage   `json:"messages"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (w wireContact) contact() chat.Contact {
	c := chat.Contact{
		ID:          firstNonEmpty(w.MongoID, w.ID),
		User:        w.User.participant(),
		ContactUser: w.ContactUser.participant(),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	for _, m := range w.Messages {
		c.Messages = append(c.Messages, m.stored())
	}
	return c
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
