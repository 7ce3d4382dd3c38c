package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pagemark/reader/internal/database"
	"github.com/pagemark/reader/internal/database/books"
	"github.com/pagemark/reader/internal/entities"
	"github.com/pagemark/reader/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBooksTest(t *testing.T) (*books.Repository, *BooksController, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_httpbooks_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	blobs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	repo := books.NewRepository(db.DB)
	controller := NewBooksController(repo, blobs)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return repo, controller, cleanup
}

func booksTestRouter(controller *BooksController) *gin.Engine {
	router := gin.New()
	router.POST("/api/books/upload", controller.Upload)
	router.GET("/api/books", controller.GetAllBooks)
	router.GET("/api/books/:id", controller.GetBook)
	router.DELETE("/api/books/:id", controller.DeleteBook)
	router.PUT("/api/books/:id/reading-time", controller.UpdateReadingTime)
	router.PUT("/api/books/:id/scroll-position", controller.UpdateScrollPosition)
	return router
}

func multipartUpload(t *testing.T, title string, pdf []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if title != "" {
		require.NoError(t, writer.WriteField("title", title))
	}
	if pdf != nil {
		part, err := writer.CreateFormFile("pdf", "book.pdf")
		require.NoError(t, err)
		_, err = part.Write(pdf)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestBooksController_Upload(t *testing.T) {
	t.Run("rejects upload without a title", func(t *testing.T) {
		_, controller, cleanup := setupBooksTest(t)
		defer cleanup()
		router := booksTestRouter(controller)

		body, contentType := multipartUpload(t, "", []byte("%PDF-1.4 not really"))
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books/upload", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "title is required")
	})

	t.Run("rejects upload without a file", func(t *testing.T) {
		_, controller, cleanup := setupBooksTest(t)
		defer cleanup()
		router := booksTestRouter(controller)

		body, contentType := multipartUpload(t, "My Book", nil)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books/upload", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "pdf file is required")
	})

	t.Run("rejects payloads that are not PDFs", func(t *testing.T) {
		repo, controller, cleanup := setupBooksTest(t)
		defer cleanup()
		router := booksTestRouter(controller)

		body, contentType := multipartUpload(t, "My Book", []byte("plain text, no pdf here"))
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books/upload", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "not a readable PDF")

		// Nothing may be recorded for a rejected upload.
		all, err := repo.GetAllBooks()
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestBooksController_GetAllBooks(t *testing.T) {
	t.Run("returns empty list when no books", func(t *testing.T) {
		_, controller, cleanup := setupBooksTest(t)
		defer cleanup()
		router := booksTestRouter(controller)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("lists books newest first without text", func(t *testing.T) {
		repo, controller, cleanup := setupBooksTest(t)
		defer cleanup()
		router := booksTestRouter(controller)

		older := &entities.Book{ID: "book-a", Name: "Book A", Text: "long text", CreatedAt: time.Now().Add(-time.Hour)}
		newer := &entities.Book{ID: "book-b", Name: "Book B", Text: "long text", CreatedAt: time.Now()}
		require.NoError(t, repo.SaveBook(older))
		require.NoError(t, repo.SaveBook(newer))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response []BookSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response, 2)
		assert.Equal(t, "book-b", response[0].ID)
		assert.Equal(t, "book-a", response[1].ID)
		assert.NotContains(t, w.Body.String(), "long text")
	})
}

func TestBooksController_GetBook(t *testing.T) {
	t.Run("returns the stored book with text", func(t *testing.T) {
		repo, controller, cleanup := setupBooksTest(t)
		defer cleanup()
		router := booksTestRouter(controller)

		book := &entities.Book{ID: "book-a", Name: "Book A", Text: "full text here"}
		require.NoError(t, repo.SaveBook(book))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books/book-a", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Book A", response.Name)
		assert.Equal(t, "full text here", response.Text)
	})

	t.Run("returns 404 for an unknown book", func(t *testing.T) {
		_, controller, cleanup := setupBooksTest(t)
		defer cleanup()
		router := booksTestRouter(controller)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books/missing", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBooksController_DeleteBook(t *testing.T) {
	t.Run("removes the book record", func(t *testing.T) {
		repo, controller, cleanup := setupBooksTest(t)
		defer cleanup()
		router := booksTestRouter(controller)

		require.NoError(t, repo.SaveBook(&entities.Book{ID: "book-a", Name: "Book A"}))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/books/book-a", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		remaining, err := repo.GetBook("book-a")
		require.NoError(t, err)
		assert.Nil(t, remaining)
	})

	t.Run("returns 404 for an unknown book", func(t *testing.T) {
		_, controller, cleanup := setupBooksTest(t)
		defer cleanup()
		router := booksTestRouter(controller)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/books/missing", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBooksController_UpdateReadingTime(t *testing.T) {
	t.Run("accumulates deltas", func(t *testing.T) {
		repo, controller, cleanup := setupBooksTest(t)
		defer cleanup()
		router := booksTestRouter(controller)

		require.NoError(t, repo.SaveBook(&entities.Book{ID: "book-a", Name: "Book A"}))

		for _, delta := range []float64{30, 20} {
			payload, _ := json.Marshal(readingTimeRequest{DeltaSeconds: delta})
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("PUT", "/api/books/book-a/reading-time", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}

		book, err := repo.GetBook("book-a")
		require.NoError(t, err)
		require.NotNil(t, book)
		assert.InDelta(t, 50, book.ReadingTimeSeconds, 0.001)
	})

	t.Run("rejects negative deltas", func(t *testing.T) {
		repo, controller, cleanup := setupBooksTest(t)
		defer cleanup()
		router := booksTestRouter(controller)

		require.NoError(t, repo.SaveBook(&entities.Book{ID: "book-a", Name: "Book A"}))

		payload, _ := json.Marshal(readingTimeRequest{DeltaSeconds: -5})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/books/book-a/reading-time", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 404 for an unknown book", func(t *testing.T) {
		_, controller, cleanup := setupBooksTest(t)
		defer cleanup()
		router := booksTestRouter(controller)

		payload, _ := json.Marshal(readingTimeRequest{DeltaSeconds: 10})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/books/missing/reading-time", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBooksController_UpdateScrollPosition(t *testing.T) {
	t.Run("stores the new position", func(t *testing.T) {
		repo, controller, cleanup := setupBooksTest(t)
		defer cleanup()
		router := booksTestRouter(controller)

		require.NoError(t, repo.SaveBook(&entities.Book{ID: "book-a", Name: "Book A"}))

		payload, _ := json.Marshal(scrollPositionRequest{Position: 0.42})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/books/book-a/scroll-position", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		book, err := repo.GetBook("book-a")
		require.NoError(t, err)
		require.NotNil(t, book)
		assert.InDelta(t, 0.42, book.ScrollPosition, 0.001)
	})

	t.Run("rejects negative positions", func(t *testing.T) {
		repo, controller, cleanup := setupBooksTest(t)
		defer cleanup()
		router := booksTestRouter(controller)

		require.NoError(t, repo.SaveBook(&entities.Book{ID: "book-a", Name: "Book A"}))

		payload, _ := json.Marshal(scrollPositionRequest{Position: -0.5})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/books/book-a/scroll-position", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
