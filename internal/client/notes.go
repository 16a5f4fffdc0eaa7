package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// NoteID identifies a note. The backend may send it as a string or a number.
type NoteID string

func (id *NoteID) UnmarshalJSON(data []byte) error {
	s, err := decodeID(data)
	if err != nil {
		return fmt.Errorf("note id must be a string or number: %w", err)
	}
	*id = NoteID(s)
	return nil
}

func (id NoteID) String() string {
	return string(id)
}

// UserID identifies a note's owner, sent as a string or a number like NoteID
type UserID string

func (id *UserID) UnmarshalJSON(data []byte) error {
	s, err := decodeID(data)
	if err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	*id = UserID(s)
	return nil
}

func (id UserID) String() string {
	return string(id)
}

func decodeID(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		return s, err
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// Note represents a note as returned by the backend
type Note struct {
	ID        NoteID `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UserID    UserID `json:"user_id,omitempty"`

	// MyNote is set on admin listings for notes the caller owns
	MyNote bool `json:"my_note"`
}

// Created parses CreatedAt, returning the zero time if it is not RFC 3339
func (n Note) Created() time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, n.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// NoteInput is the body for creating or editing a note
type NoteInput struct {
	Title   string `json:"title" form:"title" validate:"required"`
	Content string `json:"content" form:"content"`
}

// listEnvelope mirrors {data: {notes: [...]}}
type listEnvelope struct {
	Data *struct {
		Notes *[]Note `json:"notes"`
	} `json:"data"`
}

func (e *listEnvelope) notes() ([]Note, error) {
	if e.Data == nil {
		return nil, fmt.Errorf("%w: missing data", ErrMalformedResponse)
	}
	if e.Data.Notes == nil {
		return nil, fmt.Errorf("%w: missing notes", ErrMalformedResponse)
	}
	return *e.Data.Notes, nil
}

func (c *Client) listNotes(ctx context.Context, path string, query url.Values) ([]Note, error) {
	var env listEnvelope
	if err := c.do(ctx, http.MethodGet, path, query, nil, &env); err != nil {
		return nil, err
	}
	return env.notes()
}

// ListNotes returns the caller's own notes, filtered by search when non-empty
func (c *Client) ListNotes(ctx context.Context, search string) ([]Note, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	return c.listNotes(ctx, "/app/notes/", query)
}

// ListAllNotes returns every user's notes (admin only), filtered by q when non-empty
func (c *Client) ListAllNotes(ctx context.Context, q string) ([]Note, error) {
	query := url.Values{}
	if q != "" {
		query.Set("q", q)
	}
	return c.listNotes(ctx, "/app/notes/all", query)
}

// CreateNote creates a note owned by the caller
func (c *Client) CreateNote(ctx context.Context, note NoteInput) error {
	return c.do(ctx, http.MethodPost, "/app/notes/create", nil, note, nil)
}

// EditNote replaces the title and content of a note
func (c *Client) EditNote(ctx context.Context, id NoteID, note NoteInput) error {
	return c.do(ctx, http.MethodPut, "/app/notes/edit/"+url.PathEscape(id.String()), nil, note, nil)
}

// DeleteNote deletes a note by ID
func (c *Client) DeleteNote(ctx context.Context, id NoteID) error {
	return c.do(ctx, http.MethodDelete, "/app/notes/delete/"+url.PathEscape(id.String()), nil, nil, nil)
}
