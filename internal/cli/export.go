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

type ExportCommand struct {
	OutputPath   string
	DatabasePath string
	Format       string
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.OutputPath, "out", "", "Path to write the export to (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Format, "format", "", "Export format: json or csv (default: from file extension)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export the library to a JSON or CSV file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export -out ./my-books.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -out ./my-books.csv -db ./library.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.OutputPath == "" {
		fs.Usage()
		return fmt.Errorf("output path is required")
	}

	if cmd.Format == "" {
		cmd.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(cmd.OutputPath)), ".")
	}
	if cmd.Format != "json" && cmd.Format != "csv" {
		return fmt.Errorf("unsupported format %q: expected json or csv", cmd.Format)
	}

	return nil
}

func (cmd *ExportCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	out, err := os.Create(cmd.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	exporter := transfer.NewExporter(books.NewRepository(db.DB))

	switch cmd.Format {
	case "json":
		err = exporter.ExportJSON(out)
	case "csv":
		err = exporter.ExportCSV(out)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("Exported library to %s\n", cmd.OutputPath)
	return nil
}
