package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./books-library.db"

	// DefaultMediaRoot is where uploaded book files and cover images live
	DefaultMediaRoot = "./media"

	// DefaultBookImage is the placeholder cover shown for books without
	// an uploaded image. It is a reserved asset and must never be deleted.
	DefaultBookImage = "default_book_image.jpg"

	// MinimalBookYear is the lower bound for year_of_publication.
	// The upper bound is always the current calendar year.
	MinimalBookYear = -1000

	// Upload size limits
	DefaultImageMaxBytes = 5 * 1024 * 1024  // 5MB cover images
	DefaultFileMaxBytes  = 30 * 1024 * 1024 // 30MB book files

	// DefaultTopN is the ranking size used by the general statistics page
	DefaultTopN = 5
)
