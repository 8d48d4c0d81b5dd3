package entities

import (
	"time"
)

// Country is reference data for author origins. Deleting a country that
// is still referenced by an author is blocked.
type Country struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Slug      string    `gorm:"uniqueIndex;size:255" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Author of one or more books. FullName and Slug are derived from the
// name fields exactly once, at first save, and never recomputed: renaming
// an author later does not change the slug.
type Author struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	FirstName string   `gorm:"size:100" json:"first_name"`
	LastName  string   `gorm:"size:150" json:"last_name"`
	FullName  string   `gorm:"size:255" json:"full_name"`
	Slug      string   `gorm:"uniqueIndex;size:255" json:"slug"`
	CountryID *uint    `gorm:"index" json:"country_id,omitempty"`
	Country   *Country `gorm:"foreignKey:CountryID;constraint:OnDelete:RESTRICT" json:"country,omitempty"`
	Books     []Book   `gorm:"many2many:book_authors;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:40" json:"name"`
	Slug      string    `gorm:"uniqueIndex;size:64" json:"slug"`
	Books     []Book    `gorm:"many2many:book_genres;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Book is a catalog entry. Slug is derived from Title at first save and
// immutable afterwards; the (title, authors) uniqueness invariant rides
// on the slug's unique index. ImagePath falls back to the reserved
// placeholder asset when no cover was uploaded.
type Book struct {
	ID                uint     `gorm:"primaryKey" json:"id"`
	Title             string   `gorm:"size:255" json:"title"`
	Slug              string   `gorm:"uniqueIndex;size:255" json:"slug"`
	Description       string   `gorm:"type:text" json:"description,omitempty"`
	ImagePath         string   `gorm:"size:1024" json:"image_path,omitempty"`
	FilePath          string   `gorm:"size:1024" json:"file_path,omitempty"`
	YearOfPublication int      `gorm:"index" json:"year_of_publication"`
	Authors           []Author `gorm:"many2many:book_authors;" json:"authors,omitempty"`
	Genres            []Genre  `gorm:"many2many:book_genres;" json:"genres,omitempty"`
	AddedByID         *uint    `gorm:"index" json:"added_by_id,omitempty"`
	AddedBy           *User    `gorm:"foreignKey:AddedByID;constraint:OnDelete:SET NULL" json:"-"`

	Instances []UserBookInstance `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserBookInstance records "this user added this book to their personal
// library". The (user, book) pair is unique; deleting either side
// cascades to the instance.
type UserBookInstance struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_user_book" json:"user_id"`
	BookID uint `gorm:"uniqueIndex:idx_user_book" json:"book_id"`
	IsRead bool `gorm:"default:false" json:"is_read"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Book Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"book,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string     `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string     `gorm:"size:255" json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Country) TableName() string {
	return "countries"
}

func (Genre) TableName() string {
	return "genres"
}

func (User) TableName() string {
	return "users"
}

func (UserBookInstance) TableName() string {
	return "user_book_instances"
}
