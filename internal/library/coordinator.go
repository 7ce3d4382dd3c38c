// Package library coordinates book lifecycle between the local store and the
// remote upload service. Local persistence is authoritative: uploads degrade
// to local-only books when the remote call fails, while deletes are
// fail-closed and keep the local record when the remote delete fails.
package library

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/pagemark/reader/internal/entities"
)

// IDSource tags where a book id came from.
type IDSource string

const (
	IDSourceRemote IDSource = "remote" // assigned by the upload service
	IDSourceLocal  IDSource = "local"  // generated locally after a failed or skipped upload
)

// BookID is the tagged result of id assignment, making the remote-then-local
// fallback explicit instead of an ordering of nullable variables.
type BookID struct {
	Value  string
	Source IDSource
}

// BookStore is the slice of the books repository the coordinator needs.
type BookStore interface {
	SaveBook(book *entities.Book) error
	GetBook(id string) (*entities.Book, error)
	DeleteBook(id string) error
}

// RemoteClient talks to the book upload service.
type RemoteClient interface {
	UploadBook(ctx context.Context, title, filename string, file io.Reader) (string, error)
	DeleteBook(ctx context.Context, id string) error
	HasSession() bool
}

// BlobStore keeps uploaded file payloads on disk, keyed by book id.
type BlobStore interface {
	Save(bookID, filename string, r io.Reader) (string, error)
	Delete(bookID string) error
}

// Coordinator owns the add/delete flows described above.
type Coordinator struct {
	books  BookStore
	remote RemoteClient
	blobs  BlobStore
	now    func() time.Time
}

// NewCoordinator creates a coordinator. remote and blobs may be nil for a
// purely local library (CLI usage without a configured server).
func NewCoordinator(books BookStore, remote RemoteClient, blobs BlobStore) *Coordinator {
	return &Coordinator{books: books, remote: remote, blobs: blobs, now: time.Now}
}

// AddBook creates a book from the given content. When a file payload is
// present it is optimistically uploaded to the remote service and the
// remote-assigned id wins; any remote failure is logged and the book falls
// back to a locally generated id. The local write always happens.
func (c *Coordinator) AddBook(ctx context.Context, name, text string, totalPages int, filename string, file io.Reader) (*entities.Book, BookID, error) {
	if name == "" {
		return nil, BookID{}, fmt.Errorf("%w: book name is required", ErrValidation)
	}
	if totalPages < 0 {
		return nil, BookID{}, fmt.Errorf("%w: total pages must not be negative", ErrValidation)
	}

	var payload []byte
	if file != nil {
		var err error
		payload, err = io.ReadAll(file)
		if err != nil {
			return nil, BookID{}, fmt.Errorf("%w: read file payload: %v", ErrValidation, err)
		}
	}

	id := BookID{Value: uuid.NewString(), Source: IDSourceLocal}
	if payload != nil && c.remote != nil {
		remoteID, err := c.remote.UploadBook(ctx, name, filename, bytes.NewReader(payload))
		if err != nil {
			log.Printf("Remote upload failed for %q, keeping local copy: %v", name, err)
		} else {
			id = BookID{Value: remoteID, Source: IDSourceRemote}
		}
	}

	now := c.now()
	book := &entities.Book{
		ID:         id.Value,
		Name:       name,
		Text:       text,
		TotalPages: totalPages,
		CreatedAt:  now,
		LastReadAt: now,
	}

	if payload != nil && c.blobs != nil {
		path, err := c.blobs.Save(book.ID, filename, bytes.NewReader(payload))
		if err != nil {
			return nil, BookID{}, fmt.Errorf("%w: store file payload: %v", ErrPersistence, err)
		}
		book.FilePath = path
	}

	if err := c.books.SaveBook(book); err != nil {
		return nil, BookID{}, fmt.Errorf("%w: save book: %v", ErrPersistence, err)
	}

	return book, id, nil
}

// DeleteBook removes a book locally and remotely. It requires an active
// session and is fail-closed: when the remote delete fails, the local record
// is left untouched so both stores converge only on success.
func (c *Coordinator) DeleteBook(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: book id is required", ErrValidation)
	}
	if c.remote == nil || !c.remote.HasSession() {
		return ErrSession
	}

	if err := c.remote.DeleteBook(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrRemote, err)
	}

	if err := c.books.DeleteBook(id); err != nil {
		return fmt.Errorf("%w: delete book: %v", ErrPersistence, err)
	}

	if c.blobs != nil {
		if err := c.blobs.Delete(id); err != nil {
			log.Printf("Failed to remove file payload for %s: %v", id, err)
		}
	}
	return nil
}
