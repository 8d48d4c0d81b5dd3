// Command seed_catalog creates a database with sample catalog data from
// public domain books.
// Usage: go run cmd/seed_catalog/main.go [-db path/to/library.db]
package main

import (
	"flag"
	"log"
	"os"

	"booklibrary/internal/config"
	"booklibrary/internal/database"
	"booklibrary/internal/database/catalog"
	"booklibrary/internal/database/refdata"
	"booklibrary/internal/entities"
	"booklibrary/internal/validation"
)

const defaultSeedDatabasePath = "./books-library.db"

func main() {
	dbPath := flag.String("db", defaultSeedDatabasePath, "path to the database file")
	flag.Parse()

	log.Printf("Seeding catalog database at %s...", *dbPath)

	// Delete an existing database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	refdataRepo := refdata.NewRepository(db.DB)

	countries := seedCountries(refdataRepo)
	authors := seedAuthors(refdataRepo, countries)
	genres := seedGenres(refdataRepo)
	seedBooks(db, authors, genres)

	log.Println("Catalog database seeded successfully!")
}

func seedCountries(repo *refdata.Repository) map[string]*entities.Country {
	names := []string{
		"United Kingdom",
		"France",
		"Russia",
		"United States",
	}

	countries := make(map[string]*entities.Country)
	for _, name := range names {
		country, err := repo.CreateCountry(name)
		if err != nil {
			log.Printf("Failed to create country %s: %v", name, err)
			continue
		}
		countries[name] = country
	}
	return countries
}

// authorSeed pairs an author's names with their country for deferred
// resolution.
type authorSeed struct {
	First   string
	Last    string
	Country string
}

func seedAuthors(repo *refdata.Repository, countries map[string]*entities.Country) map[string]*entities.Author {
	seeds := []authorSeed{
		{"Charles", "Dickens", "United Kingdom"},
		{"Jane", "Austen", "United Kingdom"},
		{"Jules", "Verne", "France"},
		{"Fyodor", "Dostoevsky", "Russia"},
		{"Mark", "Twain", "United States"},
	}

	authors := make(map[string]*entities.Author)
	for _, seed := range seeds {
		var countryID *uint
		if country, ok := countries[seed.Country]; ok {
			countryID = &country.ID
		}
		author, err := repo.CreateAuthor(seed.First, seed.Last, countryID)
		if err != nil {
			log.Printf("Failed to create author %s %s: %v", seed.First, seed.Last, err)
			continue
		}
		authors[author.FullName] = author
	}
	return authors
}

func seedGenres(repo *refdata.Repository) map[string]*entities.Genre {
	names := []string{
		"Novel",
		"Adventure",
		"Satire",
		"Philosophy",
	}

	genres := make(map[string]*entities.Genre)
	for _, name := range names {
		genre, err := repo.CreateGenre(name)
		if err != nil {
			log.Printf("Failed to create genre %s: %v", name, err)
			continue
		}
		genres[name] = genre
	}
	return genres
}

// bookSeed holds a public domain book and its author/genre names for
// deferred association.
type bookSeed struct {
	Title       string
	Description string
	Year        int
	Authors     []string
	Genres      []string
}

func seedBooks(db *database.Database, authors map[string]*entities.Author, genres map[string]*entities.Genre) {
	limits := validation.NewLimits(config.Library{
		MinYear:       config.MinimalBookYear,
		ImageMaxBytes: config.DefaultImageMaxBytes,
		FileMaxBytes:  config.DefaultFileMaxBytes,
	})
	catalogRepo := catalog.NewRepository(db.DB, limits, config.DefaultBookImage)

	seeds := []bookSeed{
		{
			Title:       "Great Expectations",
			Description: "An orphan's rise through Victorian society and the cost of his expectations.",
			Year:        1861,
			Authors:     []string{"Charles Dickens"},
			Genres:      []string{"Novel"},
		},
		{
			Title:       "Pride and Prejudice",
			Description: "Elizabeth Bennet navigates manners, marriage and first impressions.",
			Year:        1813,
			Authors:     []string{"Jane Austen"},
			Genres:      []string{"Novel"},
		},
		{
			Title:       "Twenty Thousand Leagues Under the Seas",
			Description: "Captain Nemo's submarine voyage across the world's oceans.",
			Year:        1870,
			Authors:     []string{"Jules Verne"},
			Genres:      []string{"Adventure", "Novel"},
		},
		{
			Title:       "Crime and Punishment",
			Description: "A destitute student's theory of the extraordinary man collapses under guilt.",
			Year:        1866,
			Authors:     []string{"Fyodor Dostoevsky"},
			Genres:      []string{"Novel", "Philosophy"},
		},
		{
			Title:       "Adventures of Huckleberry Finn",
			Description: "A journey down the Mississippi and a satire of antebellum society.",
			Year:        1884,
			Authors:     []string{"Mark Twain"},
			Genres:      []string{"Adventure", "Satire"},
		},
	}

	for _, seed := range seeds {
		book := &entities.Book{
			Title:             seed.Title,
			Description:       seed.Description,
			YearOfPublication: seed.Year,
		}
		for _, name := range seed.Authors {
			if author, ok := authors[name]; ok {
				book.Authors = append(book.Authors, *author)
			}
		}
		for _, name := range seed.Genres {
			if genre, ok := genres[name]; ok {
				book.Genres = append(book.Genres, *genre)
			}
		}

		if err := catalogRepo.CreateBook(book); err != nil {
			log.Printf("Failed to save book %s: %v", seed.Title, err)
			continue
		}
		log.Printf("Saved: %s (%d)", book.Title, book.YearOfPublication)
	}
}
