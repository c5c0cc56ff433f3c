// Command generate_demo creates a demo database with sample data from public domain books.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/ivanzak/bookden/internal/database"
	"github.com/ivanzak/bookden/internal/database/books"
	"github.com/ivanzak/bookden/internal/database/library"
	"github.com/ivanzak/bookden/internal/database/shelves"
	"github.com/ivanzak/bookden/internal/entities"
)

const defaultDemoDatabasePath = "./demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	bookRepo := books.NewRepository(db.DB)
	shelfRepo := shelves.NewRepository(db.DB)
	libraryRepo := library.NewRepository(db.DB)

	created := make(map[string]uint)
	for _, input := range demoBooks() {
		book, err := bookRepo.Create(input)
		if err != nil {
			log.Printf("Failed to save book %s: %v", input.Title, err)
			continue
		}
		created[book.Title] = book.ID
		log.Printf("Saved: %s (%d authors, %d genres)", book.Title, len(book.Authors), len(book.Genres))
	}

	seedShelves(shelfRepo, created)
	seedLibrary(libraryRepo, created)

	log.Println("Demo database generated successfully!")
}

func seedShelves(repo *shelves.Repository, created map[string]uint) {
	shelfBooks := map[string][]string{
		"Classics":      {"Meditations", "The Brothers Karamazov", "Pride and Prejudice"},
		"Science Shelf": {"On the Origin of Species"},
	}

	for name, titles := range shelfBooks {
		shelf, err := repo.Create(name)
		if err != nil {
			log.Printf("Failed to create shelf %s: %v", name, err)
			continue
		}
		for _, title := range titles {
			id, ok := created[title]
			if !ok {
				continue
			}
			if err := repo.AddBook(shelf.ID, id); err != nil {
				log.Printf("Failed to shelve %s: %v", title, err)
			}
		}
	}
}

func seedLibrary(repo *library.Repository, created map[string]uint) {
	statuses := map[string]entities.ReadingStatus{
		"Meditations":              entities.StatusCompleted,
		"The Brothers Karamazov":   entities.StatusReading,
		"Pride and Prejudice":      entities.StatusUnread,
		"On the Origin of Species": entities.StatusUnread,
	}

	for title, status := range statuses {
		id, ok := created[title]
		if !ok {
			continue
		}
		if _, err := repo.AddEntry(0, id, status); err != nil {
			log.Printf("Failed to add %s to library: %v", title, err)
		}
	}
}

func demoBooks() []books.CreateInput {
	return []books.CreateInput{
		{
			Title:            "Meditations",
			Authors:          []string{"Marcus Aurelius"},
			Genres:           []string{"Philosophy", "Classic"},
			YearOfPublishing: intPtr(180),
			Status:           entities.StatusCompleted,
			Notes:            strPtr("Stoic reflections, best read slowly."),
		},
		{
			Title:            "The Brothers Karamazov",
			Authors:          []string{"Fyodor Dostoevsky"},
			Genres:           []string{"Fiction", "Classic"},
			YearOfPublishing: intPtr(1880),
			ISBN:             strPtr("9780374528379"),
			Pages:            intPtr(796),
			Status:           entities.StatusReading,
		},
		{
			Title:            "Pride and Prejudice",
			Authors:          []string{"Jane Austen"},
			Genres:           []string{"Fiction", "Classic"},
			YearOfPublishing: intPtr(1813),
			ISBN:             strPtr("9780141439518"),
			Pages:            intPtr(432),
		},
		{
			Title:            "On the Origin of Species",
			Authors:          []string{"Charles Darwin"},
			Genres:           []string{"Science", "Classic"},
			YearOfPublishing: intPtr(1859),
			ISBN:             strPtr("9780451529060"),
		},
		{
			Title:            "The Art of War",
			Authors:          []string{"Sun Tzu"},
			Genres:           []string{"Philosophy", "Strategy"},
			YearOfPublishing: intPtr(-500),
		},
		{
			Title:            "Leaves of Grass",
			Authors:          []string{"Walt Whitman"},
			Genres:           []string{"Poetry", "Classic"},
			YearOfPublishing: intPtr(1855),
		},
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }
