package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pagemark/reader/internal/config"
	"github.com/pagemark/reader/internal/database"
	"github.com/pagemark/reader/internal/database/books"
	"github.com/pagemark/reader/internal/library"
	"github.com/pagemark/reader/internal/remote"
	"github.com/pagemark/reader/internal/storage"
)

// DeleteBookCommand removes a book from the server and then locally. The
// remote delete requires logging in first; on any remote failure the local
// record is kept.
type DeleteBookCommand struct {
	ID           string
	DatabasePath string
	StorageDir   string
	ServerURL    string
	Username     string
	Password     string
}

func NewDeleteBookCommand() *DeleteBookCommand {
	return &DeleteBookCommand{}
}

func (cmd *DeleteBookCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("delete-book", flag.ExitOnError)

	fs.StringVar(&cmd.ID, "id", "", "Book id to delete (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.StorageDir, "storage", config.DefaultStorageDir, "Directory for stored book files")
	fs.StringVar(&cmd.ServerURL, "server", "", "Upload service base URL (required)")
	fs.StringVar(&cmd.Username, "username", "", "Server account username (required)")
	fs.StringVar(&cmd.Password, "password", "", "Server account password (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s delete-book -id <id> -server <url> -username <u> -password <p> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete a book from the server and the local library. The local copy is\n")
		fmt.Fprintf(os.Stderr, "only removed after the server confirmed its delete.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ID == "" {
		fs.Usage()
		return fmt.Errorf("-id is required")
	}
	if cmd.ServerURL == "" || cmd.Username == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("-server, -username and -password are required")
	}
	return nil
}

func (cmd *DeleteBookCommand) Run() error {
	ctx := context.Background()

	client, err := remote.NewClient(cmd.ServerURL)
	if err != nil {
		return fmt.Errorf("configure server client: %w", err)
	}
	if err := client.Login(ctx, cmd.Username, cmd.Password); err != nil {
		return fmt.Errorf("login: %w", err)
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

	coordinator := library.NewCoordinator(books.NewRepository(db.DB), client, blobs)
	if err := coordinator.DeleteBook(ctx, cmd.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted book %s\n", cmd.ID)
	return nil
}
