package library

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagemark/reader/internal/entities"
)

type fakeBookStore struct {
	books   map[string]entities.Book
	saveErr error
	delErr  error
}

func newFakeBookStore() *fakeBookStore {
	return &fakeBookStore{books: make(map[string]entities.Book)}
}

func (f *fakeBookStore) SaveBook(book *entities.Book) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.books[book.ID] = *book
	return nil
}

func (f *fakeBookStore) GetBook(id string) (*entities.Book, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, nil
	}
	return &book, nil
}

func (f *fakeBookStore) DeleteBook(id string) error {
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.books, id)
	return nil
}

type fakeRemote struct {
	uploadID   string
	uploadErr  error
	deleteErr  error
	hasSession bool

	uploadCalled bool
	deleteCalled bool
}

func (f *fakeRemote) UploadBook(_ context.Context, _, _ string, file io.Reader) (string, error) {
	f.uploadCalled = true
	io.ReadAll(file)
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.uploadID, nil
}

func (f *fakeRemote) DeleteBook(_ context.Context, _ string) error {
	f.deleteCalled = true
	return f.deleteErr
}

func (f *fakeRemote) HasSession() bool {
	return f.hasSession
}

type fakeBlobs struct {
	saved   map[string]string
	saveErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{saved: make(map[string]string)}
}

func (f *fakeBlobs) Save(bookID, filename string, r io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	io.ReadAll(r)
	path := "/blobs/" + bookID + "/" + filename
	f.saved[bookID] = path
	return path, nil
}

func (f *fakeBlobs) Delete(bookID string) error {
	delete(f.saved, bookID)
	return nil
}

func TestCoordinator_AddBook_RemoteIDWinsOnSuccessfulUpload(t *testing.T) {
	store := newFakeBookStore()
	remote := &fakeRemote{uploadID: "srv-42"}
	blobs := newFakeBlobs()
	coord := NewCoordinator(store, remote, blobs)

	book, id, err := coord.AddBook(context.Background(), "Dune", "text", 412, "dune.pdf", strings.NewReader("%PDF"))

	require.NoError(t, err)
	assert.True(t, remote.uploadCalled)
	assert.Equal(t, BookID{Value: "srv-42", Source: IDSourceRemote}, id)
	assert.Equal(t, "srv-42", book.ID)
	assert.Equal(t, "/blobs/srv-42/dune.pdf", book.FilePath)

	saved, err := store.GetBook("srv-42")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Dune", saved.Name)
}

func TestCoordinator_AddBook_FallsBackToLocalIDOnRemoteFailure(t *testing.T) {
	store := newFakeBookStore()
	remote := &fakeRemote{uploadErr: errors.New("503 unavailable")}
	coord := NewCoordinator(store, remote, newFakeBlobs())

	book, id, err := coord.AddBook(context.Background(), "Dune", "text", 0, "dune.pdf", strings.NewReader("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, IDSourceLocal, id.Source)
	assert.NotEmpty(t, id.Value)
	assert.Equal(t, id.Value, book.ID)

	// The local write happened despite the remote failure.
	saved, err := store.GetBook(id.Value)
	require.NoError(t, err)
	assert.NotNil(t, saved)
}

func TestCoordinator_AddBook_NoFileSkipsUpload(t *testing.T) {
	store := newFakeBookStore()
	remote := &fakeRemote{uploadID: "srv-1"}
	coord := NewCoordinator(store, remote, newFakeBlobs())

	_, id, err := coord.AddBook(context.Background(), "Pasted text", "content", 0, "", nil)

	require.NoError(t, err)
	assert.False(t, remote.uploadCalled)
	assert.Equal(t, IDSourceLocal, id.Source)
}

func TestCoordinator_AddBook_Validation(t *testing.T) {
	coord := NewCoordinator(newFakeBookStore(), nil, nil)

	_, _, err := coord.AddBook(context.Background(), "", "text", 0, "", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = coord.AddBook(context.Background(), "Name", "text", -1, "", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCoordinator_AddBook_PersistenceFailureSurfaces(t *testing.T) {
	store := newFakeBookStore()
	store.saveErr = errors.New("db locked")
	coord := NewCoordinator(store, nil, nil)

	_, _, err := coord.AddBook(context.Background(), "Dune", "text", 0, "", nil)

	assert.ErrorIs(t, err, ErrPersistence)
}

func TestCoordinator_DeleteBook_RequiresSession(t *testing.T) {
	store := newFakeBookStore()
	store.books["b1"] = entities.Book{ID: "b1"}
	remote := &fakeRemote{hasSession: false}
	coord := NewCoordinator(store, remote, nil)

	err := coord.DeleteBook(context.Background(), "b1")

	assert.ErrorIs(t, err, ErrSession)
	// Rejected before any network call.
	assert.False(t, remote.deleteCalled)
	assert.Contains(t, store.books, "b1")
}

func TestCoordinator_DeleteBook_RemoteFailureKeepsLocalRecord(t *testing.T) {
	store := newFakeBookStore()
	store.books["b1"] = entities.Book{ID: "b1"}
	remote := &fakeRemote{hasSession: true, deleteErr: errors.New("500 internal server error")}
	coord := NewCoordinator(store, remote, nil)

	err := coord.DeleteBook(context.Background(), "b1")

	assert.ErrorIs(t, err, ErrRemote)
	assert.Contains(t, store.books, "b1")
}

func TestCoordinator_DeleteBook_Success(t *testing.T) {
	store := newFakeBookStore()
	store.books["b1"] = entities.Book{ID: "b1"}
	remote := &fakeRemote{hasSession: true}
	blobs := newFakeBlobs()
	blobs.saved["b1"] = "/blobs/b1/file.pdf"
	coord := NewCoordinator(store, remote, blobs)

	err := coord.DeleteBook(context.Background(), "b1")

	require.NoError(t, err)
	assert.NotContains(t, store.books, "b1")
	assert.NotContains(t, blobs.saved, "b1")
}
