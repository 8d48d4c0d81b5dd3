// Package refdata manages the catalog's reference data: countries,
// authors and genres. Slugs (and an author's full name) are derived
// exactly once at first persistence and never recomputed; renames only
// touch the source fields.
package refdata

import (
	"errors"
	"fmt"

	gosimpleslug "github.com/gosimple/slug"
	"gorm.io/gorm"

	"booklibrary/internal/entities"
)

const maxGenreNameLen = 40

var (
	ErrNotFound     = errors.New("record not found")
	ErrSlugTaken    = errors.New("slug already in use")
	ErrCountryInUse = errors.New("country is still referenced by authors")
	ErrNameRequired = errors.New("name is required")
	ErrNameTooLong  = errors.New("genre name must be at most 40 characters")
)

// Repository handles country, author and genre database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// --- Countries ---

func (r *Repository) CreateCountry(name string) (*entities.Country, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	country := &entities.Country{Name: name, Slug: gosimpleslug.Make(name)}
	if err := r.db.Create(country).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create country: %w", err)
	}
	return country, nil
}

// RenameCountry changes the display name only. The slug keeps its
// original value.
func (r *Repository) RenameCountry(id uint, name string) error {
	if name == "" {
		return ErrNameRequired
	}
	res := r.db.Model(&entities.Country{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCountry removes a country unless any author still references
// it (protect semantics).
func (r *Repository) DeleteCountry(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&entities.Author{}).Where("country_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrCountryInUse
		}
		res := tx.Delete(&entities.Country{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *Repository) GetCountryBySlug(slug string) (*entities.Country, error) {
	var country entities.Country
	if err := r.db.Where("slug = ?", slug).First(&country).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &country, nil
}

func (r *Repository) ListCountries() ([]entities.Country, error) {
	var countries []entities.Country
	err := r.db.Order("name ASC").Find(&countries).Error
	return countries, err
}

// --- Authors ---

// CreateAuthor derives full_name and slug from the name fields at this
// single point; both stay fixed for the author's lifetime.
func (r *Repository) CreateAuthor(firstName, lastName string, countryID *uint) (*entities.Author, error) {
	if firstName == "" || lastName == "" {
		return nil, ErrNameRequired
	}
	fullName := firstName + " " + lastName
	author := &entities.Author{
		FirstName: firstName,
		LastName:  lastName,
		FullName:  fullName,
		Slug:      gosimpleslug.Make(fullName),
		CountryID: countryID,
	}
	if err := r.db.Create(author).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	return author, nil
}

// RenameAuthor updates the name fields only; full_name and slug were
// computed at creation and are immutable.
func (r *Repository) RenameAuthor(id uint, firstName, lastName string) error {
	if firstName == "" || lastName == "" {
		return ErrNameRequired
	}
	res := r.db.Model(&entities.Author{}).
		Where("id = ?", id).
		Select("first_name", "last_name").
		Updates(entities.Author{FirstName: firstName, LastName: lastName})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) GetAuthorBySlug(slug string) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.Preload("Country").Where("slug = ?", slug).First(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &author, nil
}

func (r *Repository) ListAuthors() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("full_name ASC").Find(&authors).Error
	return authors, err
}

// GetAuthorsByIDs resolves submitted author IDs, e.g. from the add-book
// form. Unknown IDs are simply absent from the result.
func (r *Repository) GetAuthorsByIDs(ids []uint) ([]entities.Author, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var authors []entities.Author
	err := r.db.Where("id IN ?", ids).Find(&authors).Error
	return authors, err
}

// --- Genres ---

func (r *Repository) CreateGenre(name string) (*entities.Genre, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(name) > maxGenreNameLen {
		return nil, ErrNameTooLong
	}
	genre := &entities.Genre{Name: name, Slug: gosimpleslug.Make(name)}
	if err := r.db.Create(genre).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create genre: %w", err)
	}
	return genre, nil
}

func (r *Repository) ListGenres() ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.Order("name ASC").Find(&genres).Error
	return genres, err
}

func (r *Repository) GetGenresByIDs(ids []uint) ([]entities.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var genres []entities.Genre
	err := r.db.Where("id IN ?", ids).Find(&genres).Error
	return genres, err
}
