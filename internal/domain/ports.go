package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrSlugTaken   = errors.New("slug already in use")
	ErrUnknownKind = errors.New("unknown record kind")
)

type GuideRepository interface {
	// Properties
	ListProperties(ctx context.Context) ([]Property, error)
	CountProperties(ctx context.Context) (int, error)
	GetProperty(ctx context.Context, id int64) (Property, error)
	GetPropertyBySlug(ctx context.Context, slug string) (Property, error)
	SaveProperty(ctx context.Context, p *Property) error
	DeleteProperty(ctx context.Context, id int64) error

	// Child records
	GetManual(ctx context.Context, p Property) (Manual, error)
	GetHowTo(ctx context.Context, id int64) (HowTo, error)
	AddRecord(ctx context.Context, r Record) (int64, error)
	// DeleteRecord removes a child by id and reports the property that owned it.
	DeleteRecord(ctx context.Context, kind Kind, id int64) (int64, error)

	// Guest activity
	AddMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, propertyID int64, limit int) ([]Message, error)
	AddPageView(ctx context.Context, v PageView) error
	CountViewsSince(ctx context.Context, since time.Time) (map[int64]int, error)
	SectionViewsSince(ctx context.Context, propertyID int64, since time.Time) ([]SectionCount, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// MessageEvent is what downstream notifiers receive for each guest message.
type MessageEvent struct {
	MessageID    int64     `json:"message_id"`
	PropertyID   int64     `json:"property_id"`
	PropertySlug string    `json:"property_slug"`
	PropertyName string    `json:"property_name"`
	Name         string    `json:"name"`
	Contact      string    `json:"contact"`
	Category     string    `json:"category"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

type MessageNotifier interface {
	NotifyMessage(ctx context.Context, ev MessageEvent) error
}
