package domain

import "time"

// Ebook is a book published for sale or free download by a writer.
type Ebook struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	PriceCents  int       `json:"price_cents"`
	CoverPath   string    `json:"cover_path,omitempty"`
	FilePath    string    `json:"file_path,omitempty"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Author *Profile `json:"author,omitempty"`
}

// EbookDraft is the validated input for submitting an ebook.
type EbookDraft struct {
	Title       string `json:"title" validate:"required,min=3,max=120"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	PriceCents  int    `json:"price_cents" validate:"gte=0,lte=100000"`
}

// EbookPurchase records one user purchasing one ebook.
// (EbookID, BuyerID) is unique; buying twice is a conflict.
type EbookPurchase struct {
	ID         string    `json:"id"`
	EbookID    string    `json:"ebook_id"`
	BuyerID    string    `json:"buyer_id"`
	PriceCents int       `json:"price_cents"` // price at purchase time
	CreatedAt  time.Time `json:"created_at"`
}
