package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wanderstay/wander-chat/internal/chat"
	"go.uber.org/zap"
)

// ErrUnauthorized is returned when the backend rejects the stored token.
// The credential store is cleared before it is returned.
var ErrUnauthorized = errors.New("unauthorized")

// CredentialSource provides the bearer token attached to requests and is
// told when the backend rejects it.
type CredentialSource interface {
	Token() string
	Clear()
}

// Client is the REST client for the platform's chat endpoints.
type Client struct {
	base   string
	http   *http.Client
	creds  CredentialSource
	logger *zap.Logger
}

// New creates a client for the given base URL.
func New(baseURL string, creds CredentialSource, logger *zap.Logger) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: 15 * time.Second},
		creds:  creds,
		logger: logger,
	}
}

// Login authenticates with email and password and returns the bearer
// token. It does not store the token; that is the caller's decision.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/users/login", payload, &out, "Login failed"); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("Login failed")
	}
	return out.Token, nil
}

// ListContacts returns all contact records the viewer participates in.
func (c *Client) ListContacts(ctx context.Context, viewerID string) ([]chat.Contact, error) {
	var wires []wireContact
	path := "/api/contacts/user/" + viewerID
	if err := c.do(ctx, http.MethodGet, path, nil, &wires, "Failed to load conversations"); err != nil {
		return nil, err
	}
	contacts := make([]chat.Contact, len(wires))
	for i, w := range wires {
		contacts[i] = w.contact()
	}
	return contacts, nil
}

// CreateContact opens a contact record with another user. The backend
// returns the existing record if one already exists for the pair.
func (c *Client) CreateContact(ctx context.Context, otherUserID string) (chat.Contact, error) {
	var w wireContact
	payload := map[string]string{"contactId": otherUserID}
	if err := c.do(ctx, http.MethodPost, "/api/contacts", payload, &w, "Failed to create conversation"); err != nil {
		return chat.Contact{}, err
	}
	return w.contact(), nil
}

// GetContact fetches a single contact record by id.
func (c *Client) GetContact(ctx context.Context, contactID string) (chat.Contact, error) {
	var w wireContact
	if err := c.do(ctx, http.MethodGet, "/api/contacts/"+contactID, nil, &w, "Failed to load conversation"); err != nil {
		return chat.Contact{}, err
	}
	return w.contact(), nil
}

// SendMessage appends a message and returns the updated contact record.
func (c *Client) SendMessage(ctx context.Context, contactID, body string) (chat.Contact, error) {
	var w wireContact
	payload := map[string]string{"message": body}
	path := "/api/contacts/" + contactID + "/messages"
	if err := c.do(ctx, http.MethodPost, path, payload, &w, "Failed to send message"); err != nil {
		return chat.Contact{}, err
	}
	return w.contact(), nil
}

// EditMessage replaces a message body and returns the updated contact.
func (c *Client) EditMessage(ctx context.Context, contactID, messageID, body string) (chat.Contact, error) {
	var w wireContact
	payload := map[string]string{"message": body}
	path := "/api/contacts/" + contactID + "/messages/" + messageID
	if err := c.do(ctx, http.MethodPut, path, payload, &w, "Failed to edit message"); err != nil {
		return chat.Contact{}, err
	}
	return w.contact(), nil
}

// DeleteMessage removes a message and returns the updated contact.
func (c *Client) DeleteMessage(ctx context.Context, contactID, messageID string) (chat.Contact, error) {
	var w wireContact
	path := "/api/contacts/" + contactID + "/messages/" + messageID
	if err := c.do(ctx, http.MethodDelete, path, nil, &w, "Failed to delete message"); err != nil {
		return chat.Contact{}, err
	}
	return w.contact(), nil
}

// do performs a request and decodes the response into out. Errors carry a
// human-readable message: the body's message if present, the transport
// error text otherwise, and the operation fallback as a last resort.
func (c *Client) do(ctx context.Context, method, path string, payload, out any, fallback string) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return errors.New(fallback)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return errors.New(fallback)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		}
		return errors.New(transportMessage(err, fallback))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.New(fallback)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.creds.Clear()
		return fmt.Errorf("%s: %w", apiErrorMessage(data, fallback), ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if c.logger != nil {
			c.logger.Warn("backend error", zap.String("path", path), zap.Int("status", resp.StatusCode))
		}
		return errors.New(apiErrorMessage(data, fallback))
	}

	if out == nil {
		return nil
	}
	if err := decodePayload(data, out); err != nil {
		if c.logger != nil {
			c.logger.Warn("undecodable response", zap.String("path", path), zap.Error(err))
		}
		return errors.New(fallback)
	}
	return nil
}

// transportMessage strips the url.Error wrapping so the UI shows the
// underlying cause rather than the full request line.
func transportMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		return unwrapped.Error()
	}
	return err.Error()
}
