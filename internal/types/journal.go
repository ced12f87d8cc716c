package types

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JournalEntry is a journal_entries document. AuthorID never changes after creation.
type JournalEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	AuthorID   primitive.ObjectID `bson:"author_id" json:"authorId"`
	AuthorName string             `bson:"author_name" json:"authorName"`
	IsPublic   bool               `bson:"is_public" json:"isPublic"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

type CreateJournalEntryRequest struct {
	Title    string     `json:"title" validate:"required,min=3,max=50" example:"My First Journal Entry"`
	Content  string     `json:"content" validate:"required,min=3"`
	Date     *time.Time `json:"date,omitempty"`
	IsPublic *bool      `json:"isPublic,omitempty"`
}

// UpdateJournalEntryParams holds a partial update; nil fields keep their stored value.
type UpdateJournalEntryParams struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=3,max=50"`
	Content  *string `json:"content,omitempty" validate:"omitempty,min=3"`
	IsPublic *bool   `json:"isPublic,omitempty"`
}

func (p UpdateJournalEntryParams) Empty() bool {
	return p.Title == nil && p.Content == nil && p.IsPublic == nil
}

// Page bounds a listing query.
type Page struct {
	Page  int64
	Limit int64
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// MaxPage keeps Skip within int64 at the largest limit.
const MaxPage = math.MaxInt64/MaxPageLimit + 1

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Page) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

type JournalEntryList struct {
	Entries []JournalEntry `json:"entries"`
	Page    int64          `json:"page"`
	Limit   int64          `json:"limit"`
}

type StatusResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}

type StatsResponse struct {
	Users          int64 `json:"users"`
	JournalEntries int64 `json:"journalEntries"`
}

type UserEntryCountResponse struct {
	UserID      string `json:"userId"`
	UserEntries int64  `json:"userEntries"`
}
