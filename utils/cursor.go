package utils

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// Cursor marks a position in a transaction listing. Pagination orders
// by (created_at, id) descending, so the pair identifies the last row
// the previous page returned.
type Cursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

// EncodeCursor packs the position into an opaque URL-safe token for
// the nextCursor response field.
func EncodeCursor(createdAt time.Time, id string) string {
	cursor := Cursor{
		CreatedAt: createdAt,
		ID:        id,
	}
	data, err := json.Marshal(cursor)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeCursor parses a client-supplied cursor token. An empty string
// means first page and decodes to nil without error.
func DecodeCursor(cursorStr string) (*Cursor, error) {
	if cursorStr == "" {
		return nil, nil
	}

	data, err := base64.URLEncoding.DecodeString(cursorStr)
	if err != nil {
		return nil, err
	}

	var cursor Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, err
	}

	return &cursor, nil
}
