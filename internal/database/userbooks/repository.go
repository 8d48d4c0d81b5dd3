// Package userbooks manages personal libraries: the (user, book)
// instances with their read flags.
package userbooks

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"booklibrary/internal/entities"
)

var (
	ErrNotFound  = errors.New("book is not in the user's library")
	ErrDuplicate = errors.New("book is already in the user's library")
)

// Filter restricts the personal library view via ?filter=.
type Filter string

const (
	FilterAll    Filter = ""
	FilterRead   Filter = "read"
	FilterUnread Filter = "unread"
)

// ParseFilter maps the request parameter onto a Filter. Anything other
// than read/unread means no restriction.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterRead, FilterUnread:
		return Filter(s)
	default:
		return FilterAll
	}
}

// Repository handles personal library database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add puts a book into the user's library. The (user, book) unique
// index guarantees that of two concurrent adds exactly one succeeds;
// the loser gets ErrDuplicate.
func (r *Repository) Add(userID, bookID uint) (*entities.UserBookInstance, error) {
	instance := &entities.UserBookInstance{UserID: userID, BookID: bookID}
	if err := r.db.Create(instance).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to add book to library: %w", err)
	}
	return instance, nil
}

// Get returns the instance for a (user, book) pair.
func (r *Repository) Get(userID, bookID uint) (*entities.UserBookInstance, error) {
	var instance entities.UserBookInstance
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&instance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &instance, nil
}

// Remove deletes the instance for a (user, book) pair.
func (r *Repository) Remove(userID, bookID uint) error {
	res := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entities.UserBookInstance{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleRead flips the read flag and returns the new value. Applying
// it twice restores the original state.
func (r *Repository) ToggleRead(userID, bookID uint) (bool, error) {
	var isRead bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var instance entities.UserBookInstance
		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&instance).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		isRead = !instance.IsRead
		return tx.Model(&instance).Update("is_read", isRead).Error
	})
	return isRead, err
}

// List returns the user's instances with books (and their authors and
// genres) preloaded, optionally restricted to read or unread.
func (r *Repository) List(userID uint, filter Filter) ([]entities.UserBookInstance, error) {
	query := r.db.Preload("Book.Authors").Preload("Book.Genres").
		Where("user_id = ?", userID).
		Order("id ASC")

	switch filter {
	case FilterRead:
		query = query.Where("is_read = ?", true)
	case FilterUnread:
		query = query.Where("is_read = ?", false)
	}

	var instances []entities.UserBookInstance
	err := query.Find(&instances).Error
	return instances, err
}
