package http

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pagemark/reader/internal/database/books"
	"github.com/pagemark/reader/internal/entities"
	"github.com/pagemark/reader/internal/storage"
)

// MaxUploadBytes caps the size of an uploaded PDF.
const MaxUploadBytes = 100 << 20

// BookStore defines database operations needed by the books controller.
type BookStore interface {
	GetAllBooks() ([]entities.Book, error)
	GetBook(id string) (*entities.Book, error)
	SaveBook(book *entities.Book) error
	DeleteBook(id string) error
	UpdateReadingTime(id string, deltaSeconds float64) error
	UpdateScrollPosition(id string, position float64) error
}

// BlobStore persists uploaded book files on disk.
type BlobStore interface {
	Save(bookID, filename string, r io.Reader) (string, error)
	Delete(bookID string) error
}

type BooksController struct {
	store BookStore
	blobs BlobStore
}

func NewBooksController(store BookStore, blobs BlobStore) *BooksController {
	return &BooksController{store: store, blobs: blobs}
}

// UploadResponse is returned after a successful book upload.
type UploadResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TotalPages int    `json:"total_pages"`
}

// BookSummary is a book without its extracted text, for list responses.
type BookSummary struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	TotalPages         int       `json:"total_pages,omitempty"`
	ReadingTimeSeconds float64   `json:"reading_time_seconds"`
	ScrollPosition     float64   `json:"scroll_position"`
	CreatedAt          time.Time `json:"created_at"`
	LastReadAt         time.Time `json:"last_read_at"`
}

// Upload accepts a multipart PDF and registers it as a book.
// POST /api/books/upload (fields: pdf, title)
func (bc *BooksController) Upload(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		respondBadRequest(c, "title is required")
		return
	}

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		respondBadRequest(c, "pdf file is required")
		return
	}
	if fileHeader.Size > MaxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "pdf file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondInternalError(c, err, "open upload")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
	if err != nil {
		respondInternalError(c, err, "read upload")
		return
	}
	if len(payload) > MaxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "pdf file too large")
		return
	}

	totalPages, err := storage.PDFPageCount(payload)
	if err != nil {
		respondBadRequest(c, "file is not a readable PDF")
		return
	}

	// Text extraction is best effort; a book without extractable text
	// is still stored and readable as a file.
	text, err := storage.PDFText(payload)
	if err != nil {
		log.Printf("Upload: text extraction failed for %q: %v", title, err)
	}

	book := &entities.Book{
		ID:         uuid.NewString(),
		Name:       title,
		Text:       text,
		TotalPages: totalPages,
		CreatedAt:  time.Now(),
		LastReadAt: time.Now(),
	}

	path, err := bc.blobs.Save(book.ID, fileHeader.Filename, bytes.NewReader(payload))
	if err != nil {
		respondInternalError(c, err, "store upload")
		return
	}
	book.FilePath = path

	if err := bc.store.SaveBook(book); err != nil {
		// Keep disk and database in step when the record cannot be written.
		_ = bc.blobs.Delete(book.ID)
		respondInternalError(c, err, "save book")
		return
	}

	respondCreated(c, UploadResponse{
		ID:         book.ID,
		Name:       book.Name,
		TotalPages: book.TotalPages,
	})
}

// GetAllBooks lists stored books, newest first, without their text.
// GET /api/books
func (bc *BooksController) GetAllBooks(c *gin.Context) {
	all, err := bc.store.GetAllBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	summaries := make([]BookSummary, 0, len(all))
	for _, b := range all {
		summaries = append(summaries, BookSummary{
			ID:                 b.ID,
			Name:               b.Name,
			TotalPages:         b.TotalPages,
			ReadingTimeSeconds: b.ReadingTimeSeconds,
			ScrollPosition:     b.ScrollPosition,
			CreatedAt:          b.CreatedAt,
			LastReadAt:         b.LastReadAt,
		})
	}
	c.JSON(http.StatusOK, summaries)
}

// GetBook returns a single book including its extracted text.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBook(id)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book record and its stored file. Bookmarks and
// highlights of the book are swept later by the cleanup task.
// DELETE /api/books/:id (session required)
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBook(id)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}

	if err := bc.store.DeleteBook(id); err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	if err := bc.blobs.Delete(id); err != nil {
		log.Printf("Delete book: failed to remove file for %s: %v", id, err)
	}

	respondSuccess(c, "book deleted")
}

type readingTimeRequest struct {
	DeltaSeconds float64 `json:"delta_seconds"`
}

// UpdateReadingTime adds delta_seconds to a book's accumulated reading time.
// PUT /api/books/:id/reading-time
func (bc *BooksController) UpdateReadingTime(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	var req readingTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	switch err := bc.store.UpdateReadingTime(id, req.DeltaSeconds); {
	case errors.Is(err, books.ErrNegativeDelta):
		respondBadRequest(c, "delta_seconds must be >= 0")
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondNotFound(c, "book")
	case err != nil:
		respondInternalError(c, err, "update reading time")
	default:
		respondSuccess(c, "reading time updated")
	}
}

type scrollPositionRequest struct {
	Position float64 `json:"position"`
}

// UpdateScrollPosition records the reader's last scroll position in a book.
// PUT /api/books/:id/scroll-position
func (bc *BooksController) UpdateScrollPosition(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	var req scrollPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	switch err := bc.store.UpdateScrollPosition(id, req.Position); {
	case errors.Is(err, books.ErrNegativePosition):
		respondBadRequest(c, "position must be >= 0")
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondNotFound(c, "book")
	case err != nil:
		respondInternalError(c, err, "update scroll position")
	default:
		respondSuccess(c, "scroll position updated")
	}
}
