package entities

import (
	"time"
)

// Book is a locally stored e-book. IDs are strings: server-assigned when the
// upload to the remote service succeeded, locally generated UUIDs otherwise.
type Book struct {
	ID                 string    `gorm:"primaryKey;size:64" json:"id"`
	Name               string    `gorm:"index;size:512" json:"name"`
	Text               string    `gorm:"type:text" json:"text"`
	FilePath           string    `gorm:"size:1024" json:"file_path,omitempty"`
	TotalPages         int       `json:"total_pages,omitempty"`
	ReadingTimeSeconds float64   `gorm:"default:0" json:"reading_time_seconds"`
	ScrollPosition     float64   `gorm:"default:0" json:"scroll_position"`
	CreatedAt          time.Time `json:"created_at"`
	LastReadAt         time.Time `json:"last_read_at"`
}

// Bookmark marks a position in a single book. Bookmarks are owned by exactly
// one book and are deleted independently by id.
type Bookmark struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	BookID    string    `gorm:"index;size:64" json:"book_id"`
	Position  float64   `json:"position"`
	Page      int       `json:"page,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Highlight is a highlighted text span in a book, with an optional note.
type Highlight struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	BookID      string    `gorm:"index;size:64" json:"book_id"`
	Text        string    `gorm:"type:text" json:"text"`
	StartOffset int       `json:"start_offset"`
	EndOffset   int       `json:"end_offset"`
	Note        string    `gorm:"type:text" json:"note,omitempty"`
	Color       string    `gorm:"size:10" json:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Book) TableName() string {
	return "books"
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

func (Highlight) TableName() string {
	return "highlights"
}
