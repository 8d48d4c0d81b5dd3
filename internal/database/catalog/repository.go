// Package catalog provides the book catalog: validated creation and
// deletion of books and the search/sort/read-annotation pipeline behind
// the library views.
package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"booklibrary/internal/entities"
	"booklibrary/internal/validation"
)

var (
	ErrNotFound  = errors.New("book not found")
	ErrSlugTaken = errors.New("a book with this title already exists")
)

// Repository handles all catalog database operations.
type Repository struct {
	db           *gorm.DB
	limits       validation.Limits
	defaultImage string
}

// NewRepository creates a new catalog repository. defaultImage is the
// relative path of the placeholder cover assigned to books without an
// uploaded image.
func NewRepository(db *gorm.DB, limits validation.Limits, defaultImage string) *Repository {
	return &Repository{db: db, limits: limits, defaultImage: defaultImage}
}

// CreateBook validates the full candidate and persists the book with
// its author/genre associations in one transaction. Nothing is written
// when validation fails. The slug is derived from the title here, once;
// later edits never touch it. A slug collision surfaces as ErrSlugTaken
// via the unique index, so exactly one of two concurrent submissions
// with the same title wins.
func (r *Repository) CreateBook(book *entities.Book) error {
	if errs := r.validateBook(book); !errs.Empty() {
		return errs
	}

	if book.Slug == "" {
		book.Slug = Normalize(book.Title)
	}
	if book.ImagePath == "" {
		book.ImagePath = r.defaultImage
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(book).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

func (r *Repository) validateBook(book *entities.Book) validation.FieldErrors {
	errs := validation.FieldErrors{}
	if book.Title == "" {
		errs.Add("title", "title is required")
	}
	if err := r.limits.ValidateYear(book.YearOfPublication); err != nil {
		errs.Add("year_of_publication", err.Error())
	}
	if len(book.Authors) == 0 {
		errs.Add("authors", "select at least one author")
	}
	return errs
}

// GetBookBySlug returns a book with its authors and genres preloaded.
func (r *Repository) GetBookBySlug(slug string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Authors").Preload("Genres").Where("slug = ?", slug).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// GetBookByID returns a book with its authors and genres preloaded.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Authors").Preload("Genres").First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// UpdateBookDetails edits the mutable book fields. The slug is
// deliberately excluded: it was derived once at creation and renaming
// a book does not change its URL.
func (r *Repository) UpdateBookDetails(id uint, title, description string, year int) error {
	errs := validation.FieldErrors{}
	if title == "" {
		errs.Add("title", "title is required")
	}
	if err := r.limits.ValidateYear(year); err != nil {
		errs.Add("year_of_publication", err.Error())
	}
	if !errs.Empty() {
		return errs
	}

	res := r.db.Model(&entities.Book{}).
		Where("id = ?", id).
		Select("title", "description", "year_of_publication").
		Updates(entities.Book{Title: title, Description: description, YearOfPublication: year})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBook removes the book, its association rows and all user
// library instances in one transaction, and returns the deleted record
// so the caller can clean up its stored assets afterwards.
func (r *Repository) DeleteBook(id uint) (*entities.Book, error) {
	book, err := r.GetBookByID(id)
	if err != nil {
		return nil, err
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(book).Association("Authors").Clear(); err != nil {
			return err
		}
		if err := tx.Model(book).Association("Genres").Clear(); err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.UserBookInstance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Book{}, id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete book: %w", err)
	}
	return book, nil
}

// ListBooks produces the catalog view: every book with authors and
// genres preloaded, annotated with the viewer's read flag when a viewer
// is present, searched and sorted per the request parameters. Results
// are one entry per book (no join fan-out).
func (r *Repository) ListBooks(query string, sortBy Sort, viewerID *uint) ([]Entry, error) {
	if sortBy == SortRead && viewerID == nil {
		return nil, ErrReadSortRequiresViewer
	}

	var books []entities.Book
	if err := r.db.Preload("Authors").Preload("Genres").Order("id DESC").Find(&books).Error; err != nil {
		return nil, err
	}

	entries := make([]Entry, len(books))
	for i := range books {
		entries[i] = Entry{Book: books[i]}
	}

	if viewerID != nil {
		readIDs, err := r.readBookIDs(*viewerID)
		if err != nil {
			return nil, err
		}
		AnnotateRead(entries, readIDs)
	}

	entries = Search(entries, query)
	if err := SortEntries(entries, sortBy); err != nil {
		return nil, err
	}
	return entries, nil
}

// readBookIDs returns the IDs of books the user has marked as read.
func (r *Repository) readBookIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.Model(&entities.UserBookInstance{}).
		Where("user_id = ? AND is_read = ?", userID, true).
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, err
	}

	readIDs := make(map[uint]bool, len(ids))
	for _, id := range ids {
		readIDs[id] = true
	}
	return readIDs, nil
}
