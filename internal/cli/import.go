package cli

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivanzak/bookden/internal/config"
	"github.com/ivanzak/bookden/internal/database"
	"github.com/ivanzak/bookden/internal/database/books"
	"github.com/ivanzak/bookden/internal/transfer"
)

type ImportCommand struct {
	FilePath     string
	DatabasePath string
	Format       string
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the JSON or CSV file to import (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Format, "format", "", "Import format: json or csv (default: from file extension)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import books from a JSON or CSV file into the library.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file ./my-books.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -file ./my-books.csv -db ./library.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		fs.Usage()
		return fmt.Errorf("file is required")
	}

	if cmd.Format == "" {
		cmd.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(cmd.FilePath)), ".")
	}
	if cmd.Format != "json" && cmd.Format != "csv" {
		return fmt.Errorf("unsupported format %q: expected json or csv", cmd.Format)
	}

	return nil
}

func (cmd *ImportCommand) Run() error {
	file, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	importer := transfer.NewImporter(books.NewRepository(db.DB))

	var summary *transfer.Summary
	switch cmd.Format {
	case "json":
		summary, err = importer.ImportJSON(file)
	case "csv":
		summary, err = importer.ImportCSV(file)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Created: %d\n", summary.Created)
	fmt.Printf("Skipped: %d\n", summary.Skipped)
	for _, msg := range summary.Messages() {
		fmt.Printf("Error: %s\n", msg)
	}

	return nil
}
