package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/pagemark/reader/internal/config"
	"github.com/pagemark/reader/internal/database"
	streakdb "github.com/pagemark/reader/internal/database/streak"
	"github.com/pagemark/reader/internal/streak"
)

// CompleteDayCommand credits today's reading goal.
type CompleteDayCommand struct {
	DatabasePath string
}

func NewCompleteDayCommand() *CompleteDayCommand {
	return &CompleteDayCommand{}
}

func (cmd *CompleteDayCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("complete-day", flag.ExitOnError)
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s complete-day [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Mark today's reading goal as completed. Calling it twice on the same\n")
		fmt.Fprintf(os.Stderr, "calendar day is a no-op.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	return fs.Parse(args)
}

func (cmd *CompleteDayCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	engine := streak.NewEngine(streakdb.NewRepository(db.DB))
	updated, err := engine.CompleteDay()
	if err != nil {
		return err
	}

	view, err := engine.Load()
	if err != nil {
		return err
	}

	if updated {
		fmt.Printf("Day completed. Current streak: %d day(s) since %s\n", view.CurrentStreak, view.StartDate)
	} else {
		fmt.Printf("Today is already completed. Current streak: %d day(s)\n", view.CurrentStreak)
	}
	return nil
}

// StreakInitCommand overwrites the streak with an explicit state, for
// carrying a streak over from another device.
type StreakInitCommand struct {
	DatabasePath string
	Days         int
	StartDate    string
}

func NewStreakInitCommand() *StreakInitCommand {
	return &StreakInitCommand{}
}

func (cmd *StreakInitCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("streak-init", flag.ExitOnError)
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.IntVar(&cmd.Days, "days", 0, "Streak length in days (required, > 0)")
	fs.StringVar(&cmd.StartDate, "start", "", "Streak start date, YYYY-MM-DD (defaults to today)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s streak-init -days <n> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Overwrite the reading streak with the given day count. Any existing\n")
		fmt.Fprintf(os.Stderr, "streak state is replaced and today counts as completed.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Days <= 0 {
		fs.Usage()
		return fmt.Errorf("-days must be a positive integer")
	}
	return nil
}

func (cmd *StreakInitCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	engine := streak.NewEngine(streakdb.NewRepository(db.DB))
	if err := engine.InitializeStreak(cmd.Days, cmd.StartDate); err != nil {
		return err
	}

	view, err := engine.Load()
	if err != nil {
		return err
	}

	fmt.Printf("Streak set to %d day(s) since %s\n", view.CurrentStreak, view.StartDate)
	return nil
}
