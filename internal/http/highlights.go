package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pagemark/reader/internal/entities"
)

// HighlightStore defines database operations for highlights.
type HighlightStore interface {
	GetByBook(bookID string) ([]entities.Highlight, error)
	Save(highlight *entities.Highlight) error
	Delete(id string) error
}

type HighlightsController struct {
	store HighlightStore
	books BookStore
}

func NewHighlightsController(store HighlightStore, books BookStore) *HighlightsController {
	return &HighlightsController{store: store, books: books}
}

// GetByBook lists highlights of a book ordered by position in the text.
// GET /api/books/:id/highlights
func (hc *HighlightsController) GetByBook(c *gin.Context) {
	bookID, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	highlights, err := hc.store.GetByBook(bookID)
	if err != nil {
		respondInternalError(c, err, "list highlights")
		return
	}
	c.JSON(http.StatusOK, highlights)
}

type createHighlightRequest struct {
	BookID      string `json:"book_id"`
	Text        string `json:"text"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Note        string `json:"note"`
	Color       string `json:"color"`
}

// Create stores a new highlight for an existing book.
// POST /api/highlights
func (hc *HighlightsController) Create(c *gin.Context) {
	var req createHighlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.BookID == "" {
		respondBadRequest(c, "book_id is required")
		return
	}
	if req.Text == "" {
		respondBadRequest(c, "text is required")
		return
	}
	if req.EndOffset < req.StartOffset || req.StartOffset < 0 {
		respondBadRequest(c, "invalid highlight offsets")
		return
	}

	book, err := hc.books.GetBook(req.BookID)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}

	highlight := &entities.Highlight{
		ID:          uuid.NewString(),
		BookID:      req.BookID,
		Text:        req.Text,
		StartOffset: req.StartOffset,
		EndOffset:   req.EndOffset,
		Note:        req.Note,
		Color:       req.Color,
		CreatedAt:   time.Now(),
	}
	if err := hc.store.Save(highlight); err != nil {
		respondInternalError(c, err, "save highlight")
		return
	}
	respondCreated(c, highlight)
}

// Delete removes a highlight by id.
// DELETE /api/highlights/:id
func (hc *HighlightsController) Delete(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}
	if err := hc.store.Delete(id); err != nil {
		respondInternalError(c, err, "delete highlight")
		return
	}
	respondSuccess(c, "highlight deleted")
}
