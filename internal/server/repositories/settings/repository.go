package settings

import (
	"context"
	"encoding/json"
	"time"
)

// Document is one singleton settings row; Data holds the JSON body.
type Document struct {
	Type      string
	Data      json.RawMessage
	UpdatedAt time.Time
}

// Repository is the settings store keyed by settings type.
type Repository interface {
	Ensure(ctx context.Context, settingsType string, defaults json.RawMessage) error
	Get(ctx context.Context, settingsType string) (*Document, error)
	GetForUpdate(ctx context.Context, settingsType string) (*Document, error)
	Put(ctx context.Context, settingsType string, data json.RawMessage) (*Document, error)
}
