package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pagemark/reader/internal/entities"
)

// BookmarkStore defines database operations for bookmarks.
type BookmarkStore interface {
	GetByBook(bookID string) ([]entities.Bookmark, error)
	Save(bookmark *entities.Bookmark) error
	Delete(id string) error
}

type BookmarksController struct {
	store BookmarkStore
	books BookStore
}

func NewBookmarksController(store BookmarkStore, books BookStore) *BookmarksController {
	return &BookmarksController{store: store, books: books}
}

// GetByBook lists bookmarks of a book in creation order.
// GET /api/books/:id/bookmarks
func (bc *BookmarksController) GetByBook(c *gin.Context) {
	bookID, ok := requireIDParam(c, "id")
	if !ok {
		return
	}

	bookmarks, err := bc.store.GetByBook(bookID)
	if err != nil {
		respondInternalError(c, err, "list bookmarks")
		return
	}
	c.JSON(http.StatusOK, bookmarks)
}

type createBookmarkRequest struct {
	BookID   string  `json:"book_id"`
	Position float64 `json:"position"`
	Page     int     `json:"page"`
}

// Create stores a new bookmark for an existing book.
// POST /api/bookmarks
func (bc *BookmarksController) Create(c *gin.Context) {
	var req createBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.BookID == "" {
		respondBadRequest(c, "book_id is required")
		return
	}

	book, err := bc.books.GetBook(req.BookID)
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}

	bookmark := &entities.Bookmark{
		ID:        uuid.NewString(),
		BookID:    req.BookID,
		Position:  req.Position,
		Page:      req.Page,
		CreatedAt: time.Now(),
	}
	if err := bc.store.Save(bookmark); err != nil {
		respondInternalError(c, err, "save bookmark")
		return
	}
	respondCreated(c, bookmark)
}

// Delete removes a bookmark by id.
// DELETE /api/bookmarks/:id
func (bc *BookmarksController) Delete(c *gin.Context) {
	id, ok := requireIDParam(c, "id")
	if !ok {
		return
	}
	if err := bc.store.Delete(id); err != nil {
		respondInternalError(c, err, "delete bookmark")
		return
	}
	respondSuccess(c, "bookmark deleted")
}
