// Package stats computes the read-only aggregates behind the
// statistics pages. Every query is a pure function of current data;
// nothing here mutates state.
package stats

import (
	"database/sql"

	"gorm.io/gorm"

	"booklibrary/internal/entities"
	"booklibrary/internal/validation"
)

// NameCount is one row of a distribution: a label and how many books
// (or library instances) it accounts for.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// BookCount ranks a single book by how often users interacted with it.
type BookCount struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Count int64  `json:"count"`
}

// ReadingSummary is the personal dashboard: catalog size, how many
// books the user added and how many of those they marked read.
type ReadingSummary struct {
	TotalBooks int64
	InLibrary  int64
	Read       int64
}

// GeneralSummary is the global dashboard.
type GeneralSummary struct {
	TotalBooks     int64
	AverageYear    float64
	PopularGenres  []NameCount
	PopularAuthors []NameCount
	MostReadBooks  []BookCount
}

// Repository runs the aggregate queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GenreDistribution counts, per genre, the books whose publication year
// falls inside the window, ordered by count descending. Genres with no
// matching books still appear with a zero count. Ties keep genre
// insertion order.
func (r *Repository) GenreDistribution(w validation.YearWindow) ([]NameCount, error) {
	var rows []NameCount
	err := r.db.Raw(`
		SELECT genres.name AS name, COUNT(books.id) AS count
		FROM genres
		LEFT JOIN book_genres ON book_genres.genre_id = genres.id
		LEFT JOIN books ON books.id = book_genres.book_id
			AND books.year_of_publication BETWEEN ? AND ?
		GROUP BY genres.id
		ORDER BY count DESC, genres.id ASC`, w.Start, w.End).Scan(&rows).Error
	return rows, err
}

// AuthorDistribution counts books per author, ordered by count
// descending with insertion-order ties.
func (r *Repository) AuthorDistribution() ([]NameCount, error) {
	var rows []NameCount
	err := r.db.Raw(`
		SELECT authors.full_name AS name, COUNT(books.id) AS count
		FROM authors
		LEFT JOIN book_authors ON book_authors.author_id = authors.id
		LEFT JOIN books ON books.id = book_authors.book_id
		GROUP BY authors.id
		ORDER BY count DESC, authors.id ASC`).Scan(&rows).Error
	return rows, err
}

// UserReadingSummary computes the requesting user's personal numbers.
func (r *Repository) UserReadingSummary(userID uint) (ReadingSummary, error) {
	var summary ReadingSummary

	if err := r.db.Model(&entities.Book{}).Count(&summary.TotalBooks).Error; err != nil {
		return summary, err
	}
	if err := r.db.Model(&entities.UserBookInstance{}).
		Where("user_id = ?", userID).
		Count(&summary.InLibrary).Error; err != nil {
		return summary, err
	}
	err := r.db.Model(&entities.UserBookInstance{}).
		Where("user_id = ? AND is_read = ?", userID, true).
		Count(&summary.Read).Error
	return summary, err
}

// General computes the global dashboard. Popularity is measured in
// user library instances across all users, not catalog presence; the
// most-read ranking counts only instances flagged read. Each ranking
// is limited to topN with insertion-order tie-breaking.
func (r *Repository) General(topN int) (GeneralSummary, error) {
	var summary GeneralSummary

	if err := r.db.Model(&entities.Book{}).Count(&summary.TotalBooks).Error; err != nil {
		return summary, err
	}

	var avg sql.NullFloat64
	err := r.db.Model(&entities.Book{}).
		Select("AVG(year_of_publication)").
		Scan(&avg).Error
	if err != nil {
		return summary, err
	}
	if avg.Valid {
		summary.AverageYear = avg.Float64
	}

	err = r.db.Raw(`
		SELECT genres.name AS name, COUNT(*) AS count
		FROM user_book_instances
		JOIN book_genres ON book_genres.book_id = user_book_instances.book_id
		JOIN genres ON genres.id = book_genres.genre_id
		GROUP BY genres.id
		ORDER BY count DESC, genres.id ASC
		LIMIT ?`, topN).Scan(&summary.PopularGenres).Error
	if err != nil {
		return summary, err
	}

	err = r.db.Raw(`
		SELECT authors.full_name AS name, COUNT(*) AS count
		FROM user_book_instances
		JOIN book_authors ON book_authors.book_id = user_book_instances.book_id
		JOIN authors ON authors.id = book_authors.author_id
		GROUP BY authors.id
		ORDER BY count DESC, authors.id ASC
		LIMIT ?`, topN).Scan(&summary.PopularAuthors).Error
	if err != nil {
		return summary, err
	}

	err = r.db.Raw(`
		SELECT books.id AS id, books.title AS title, COUNT(*) AS count
		FROM user_book_instances
		JOIN books ON books.id = user_book_instances.book_id
		WHERE user_book_instances.is_read = ?
		GROUP BY books.id
		ORDER BY count DESC, books.id ASC
		LIMIT ?`, true, topN).Scan(&summary.MostReadBooks).Error
	return summary, err
}
