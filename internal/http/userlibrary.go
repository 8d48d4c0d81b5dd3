package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"booklibrary/internal/auth"
	"booklibrary/internal/database/catalog"
	"booklibrary/internal/database/userbooks"
)

// UserLibraryController manages the authenticated user's personal
// library: membership, read flags and the filtered listing.
type UserLibraryController struct {
	catalog   *catalog.Repository
	userBooks *userbooks.Repository
}

func NewUserLibraryController(catalogRepo *catalog.Repository, userBooksRepo *userbooks.Repository) *UserLibraryController {
	return &UserLibraryController{catalog: catalogRepo, userBooks: userBooksRepo}
}

// Add puts a catalog book into the viewer's library. Adding a book that
// is already there is a conflict, not a silent no-op.
func (ctl *UserLibraryController) Add(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ctl.catalog.GetBookByID(bookID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.String(http.StatusNotFound, "Book not found")
			return
		}
		log.Printf("ERROR: loading book: %v", err)
		c.String(http.StatusInternalServerError, "Failed to add the book to your library")
		return
	}

	if _, err := ctl.userBooks.Add(auth.GetUserID(c), book.ID); err != nil {
		if errors.Is(err, userbooks.ErrDuplicate) {
			c.String(http.StatusConflict, "The book is already in your library")
			return
		}
		log.Printf("ERROR: adding book to library: %v", err)
		c.String(http.StatusInternalServerError, "Failed to add the book to your library")
		return
	}

	c.Redirect(http.StatusFound, "/library/book/"+book.Slug)
}

// Remove takes a book out of the viewer's library. The catalog record
// and the read history of other users are untouched.
func (ctl *UserLibraryController) Remove(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ctl.catalog.GetBookByID(bookID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.String(http.StatusNotFound, "Book not found")
			return
		}
		log.Printf("ERROR: loading book: %v", err)
		c.String(http.StatusInternalServerError, "Failed to remove the book from your library")
		return
	}

	if err := ctl.userBooks.Remove(auth.GetUserID(c), book.ID); err != nil {
		if errors.Is(err, userbooks.ErrNotFound) {
			c.String(http.StatusNotFound, "The book is not in your library")
			return
		}
		log.Printf("ERROR: removing book from library: %v", err)
		c.String(http.StatusInternalServerError, "Failed to remove the book from your library")
		return
	}

	c.Redirect(http.StatusFound, "/library/book/"+book.Slug)
}

// ToggleRead flips the read flag of a book in the viewer's library.
func (ctl *UserLibraryController) ToggleRead(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	isRead, err := ctl.userBooks.ToggleRead(auth.GetUserID(c), bookID)
	if err != nil {
		if errors.Is(err, userbooks.ErrNotFound) {
			c.String(http.StatusNotFound, "The book is not in your library")
			return
		}
		log.Printf("ERROR: toggling read flag: %v", err)
		c.String(http.StatusInternalServerError, "Failed to update the read status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_read": isRead})
}

// Page renders the viewer's library, optionally restricted via
// ?filter=read or ?filter=unread.
func (ctl *UserLibraryController) Page(c *gin.Context) {
	ctl.renderUserLibrary(c, "user_library")
}

// FilterPartial renders just the instance list fragment for the same
// parameters.
func (ctl *UserLibraryController) FilterPartial(c *gin.Context) {
	ctl.renderUserLibrary(c, "user_book_list")
}

func (ctl *UserLibraryController) renderUserLibrary(c *gin.Context, template string) {
	filter := userbooks.ParseFilter(c.Query("filter"))

	instances, err := ctl.userBooks.List(auth.GetUserID(c), filter)
	if err != nil {
		log.Printf("ERROR: listing user library: %v", err)
		c.String(http.StatusInternalServerError, "Failed to load your library")
		return
	}

	c.HTML(http.StatusOK, template, gin.H{
		"Instances": instances,
		"Filter":    string(filter),
		"Username":  auth.GetUsername(c),
		"CSRFToken": auth.GetCSRFToken(c),
	})
}
