// Package cli implements the command-line commands of the reader binary.
package cli

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pagemark/reader/internal/config"
	"github.com/pagemark/reader/internal/database"
	"github.com/pagemark/reader/internal/database/books"
	"github.com/pagemark/reader/internal/library"
	"github.com/pagemark/reader/internal/remote"
	"github.com/pagemark/reader/internal/storage"
)

// AddBookCommand imports a PDF into the local library, uploading it to the
// remote service when one is configured.
type AddBookCommand struct {
	FilePath     string
	Title        string
	DatabasePath string
	StorageDir   string
	ServerURL    string
}

func NewAddBookCommand() *AddBookCommand {
	return &AddBookCommand{}
}

func (cmd *AddBookCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("add-book", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the PDF file to import (required)")
	fs.StringVar(&cmd.Title, "title", "", "Book title (defaults to the file name)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.StorageDir, "storage", config.DefaultStorageDir, "Directory for stored book files")
	fs.StringVar(&cmd.ServerURL, "server", "", "Upload service base URL (empty keeps the book local-only)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s add-book -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a PDF into the local library. With -server set, the file is\n")
		fmt.Fprintf(os.Stderr, "uploaded first and the server-assigned id is used; when the upload\n")
		fmt.Fprintf(os.Stderr, "fails the book is kept with a locally generated id.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		fs.Usage()
		return fmt.Errorf("-file is required")
	}
	if cmd.Title == "" {
		base := filepath.Base(cmd.FilePath)
		cmd.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return nil
}

func (cmd *AddBookCommand) Run() error {
	payload, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", cmd.FilePath, err)
	}

	totalPages, err := storage.PDFPageCount(payload)
	if err != nil {
		return fmt.Errorf("%s is not a readable PDF: %w", cmd.FilePath, err)
	}
	text, err := storage.PDFText(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: text extraction failed: %v\n", err)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	blobs, err := storage.NewFileStore(cmd.StorageDir)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	var remoteClient library.RemoteClient
	if cmd.ServerURL != "" {
		client, err := remote.NewClient(cmd.ServerURL)
		if err != nil {
			return fmt.Errorf("configure server client: %w", err)
		}
		remoteClient = client
	}

	coordinator := library.NewCoordinator(books.NewRepository(db.DB), remoteClient, blobs)

	book, id, err := coordinator.AddBook(
		context.Background(),
		cmd.Title,
		text,
		totalPages,
		filepath.Base(cmd.FilePath),
		bytes.NewReader(payload),
	)
	if err != nil {
		return err
	}

	fmt.Printf("Added %q (%d pages)\n", book.Name, book.TotalPages)
	fmt.Printf("  id: %s (%s)\n", id.Value, id.Source)
	return nil
}
