// Package http contains the Gin controllers and router for the
// library's server-rendered pages.
package http

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"booklibrary/internal/auth"
	"booklibrary/internal/database/catalog"
	"booklibrary/internal/database/refdata"
	"booklibrary/internal/database/userbooks"
	"booklibrary/internal/entities"
	"booklibrary/internal/storage"
	"booklibrary/internal/validation"
)

// LibraryController serves the public catalog pages and the add/delete
// book flows.
type LibraryController struct {
	catalog   *catalog.Repository
	refdata   *refdata.Repository
	userBooks *userbooks.Repository
	store     *storage.Store
	limits    validation.Limits
}

func NewLibraryController(
	catalogRepo *catalog.Repository,
	refdataRepo *refdata.Repository,
	userBooksRepo *userbooks.Repository,
	store *storage.Store,
	limits validation.Limits,
) *LibraryController {
	return &LibraryController{
		catalog:   catalogRepo,
		refdata:   refdataRepo,
		userBooks: userBooksRepo,
		store:     store,
		limits:    limits,
	}
}

// HomePage renders the landing page.
func (ctl *LibraryController) HomePage(c *gin.Context) {
	c.HTML(http.StatusOK, "index", gin.H{
		"Username": auth.GetUsername(c),
	})
}

// LibraryPage renders the catalog, optionally searched via ?q= and
// sorted via ?sorted=. Requesting the read sort anonymously is a client
// error, not an empty result.
func (ctl *LibraryController) LibraryPage(c *gin.Context) {
	ctl.renderCatalog(c, "library")
}

// LibrarySearch renders just the book list fragment for the same
// parameters, for in-page updates.
func (ctl *LibraryController) LibrarySearch(c *gin.Context) {
	ctl.renderCatalog(c, "book_list")
}

func (ctl *LibraryController) renderCatalog(c *gin.Context, template string) {
	query := c.Query("q")
	sortBy := catalog.ParseSort(c.Query("sorted"))

	entries, err := ctl.catalog.ListBooks(query, sortBy, auth.ViewerID(c))
	if err != nil {
		if errors.Is(err, catalog.ErrReadSortRequiresViewer) {
			c.String(http.StatusBadRequest, "Sorting by read status requires logging in")
			return
		}
		log.Printf("ERROR: listing books: %v", err)
		c.String(http.StatusInternalServerError, "Failed to load the library")
		return
	}

	c.HTML(http.StatusOK, template, gin.H{
		"Books":    entries,
		"Query":    query,
		"Sorted":   string(sortBy),
		"Username": auth.GetUsername(c),
	})
}

// BookPage renders a single book addressed by its immutable slug.
func (ctl *LibraryController) BookPage(c *gin.Context) {
	book, err := ctl.catalog.GetBookBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.String(http.StatusNotFound, "Book not found")
			return
		}
		log.Printf("ERROR: loading book: %v", err)
		c.String(http.StatusInternalServerError, "Failed to load the book")
		return
	}

	var instance *entities.UserBookInstance
	if viewerID := auth.ViewerID(c); viewerID != nil {
		inst, err := ctl.userBooks.Get(*viewerID, book.ID)
		if err == nil {
			instance = inst
		} else if !errors.Is(err, userbooks.ErrNotFound) {
			log.Printf("ERROR: loading library instance: %v", err)
		}
	}

	c.HTML(http.StatusOK, "book", gin.H{
		"Book":      book,
		"Instance":  instance,
		"Username":  auth.GetUsername(c),
		"CSRFToken": auth.GetCSRFToken(c),
	})
}

// AddBookPage renders the empty add-book form.
func (ctl *LibraryController) AddBookPage(c *gin.Context) {
	ctl.renderAddBookForm(c, http.StatusOK, validation.FieldErrors{}, addBookForm{})
}

type addBookForm struct {
	Title       string
	Description string
	Year        string
	AuthorIDs   []string
	GenreIDs    []string
}

func (f addBookForm) SelectedAuthor(id uint) bool { return containsID(f.AuthorIDs, id) }
func (f addBookForm) SelectedGenre(id uint) bool  { return containsID(f.GenreIDs, id) }

func containsID(values []string, id uint) bool {
	s := strconv.FormatUint(uint64(id), 10)
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func (ctl *LibraryController) renderAddBookForm(c *gin.Context, status int, errs validation.FieldErrors, form addBookForm) {
	authors, err := ctl.refdata.ListAuthors()
	if err != nil {
		log.Printf("ERROR: listing authors: %v", err)
		c.String(http.StatusInternalServerError, "Failed to load the form")
		return
	}
	genres, err := ctl.refdata.ListGenres()
	if err != nil {
		log.Printf("ERROR: listing genres: %v", err)
		c.String(http.StatusInternalServerError, "Failed to load the form")
		return
	}

	c.HTML(status, "add_book", gin.H{
		"Authors":   authors,
		"Genres":    genres,
		"Errors":    errs,
		"Form":      form,
		"MinYear":   ctl.limits.MinYear,
		"MaxYear":   ctl.limits.MaxYear(),
		"Username":  auth.GetUsername(c),
		"CSRFToken": auth.GetCSRFToken(c),
	})
}

// AddBook handles the add-book form submission. Every field and both
// uploads are validated before any asset is written; a database failure
// after the uploads rolls the stored assets back so no orphan files
// remain.
func (ctl *LibraryController) AddBook(c *gin.Context) {
	form := addBookForm{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Year:        strings.TrimSpace(c.PostForm("year_of_publication")),
		AuthorIDs:   c.PostFormArray("authors"),
		GenreIDs:    c.PostFormArray("genre"),
	}

	errs := validation.FieldErrors{}
	if form.Title == "" {
		errs.Add("title", "title is required")
	}

	year, err := strconv.Atoi(form.Year)
	if err != nil {
		errs.Add("year_of_publication", "enter a valid year")
	} else if err := ctl.limits.ValidateYear(year); err != nil {
		errs.Add("year_of_publication", err.Error())
	}

	authors, err := ctl.refdata.GetAuthorsByIDs(parseUints(form.AuthorIDs))
	if err != nil {
		log.Printf("ERROR: resolving authors: %v", err)
		c.String(http.StatusInternalServerError, "Failed to add the book")
		return
	}
	if len(authors) == 0 {
		errs.Add("authors", "select at least one author")
	}

	genres, err := ctl.refdata.GetGenresByIDs(parseUints(form.GenreIDs))
	if err != nil {
		log.Printf("ERROR: resolving genres: %v", err)
		c.String(http.StatusInternalServerError, "Failed to add the book")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		errs.Add("file", "file field cannot be empty")
	} else if err := ctl.limits.ValidateBookFile(fileHeader.Filename, fileHeader.Size); err != nil {
		errs.Add("file", err.Error())
	}

	imageHeader, err := c.FormFile("image")
	if err != nil {
		imageHeader = nil // cover image is optional
	} else if err := ctl.limits.ValidateCoverImage(imageHeader.Filename, imageHeader.Size); err != nil {
		errs.Add("image", err.Error())
	}

	if !errs.Empty() {
		ctl.renderAddBookForm(c, http.StatusOK, errs, form)
		return
	}

	slug := catalog.Normalize(form.Title)

	filePath, err := ctl.saveUpload(fileHeader, func(name string, r io.Reader) (string, error) {
		return ctl.store.SaveBookFile(slug, name, r)
	})
	if err != nil {
		log.Printf("ERROR: storing book file: %v", err)
		c.String(http.StatusInternalServerError, "Failed to store the uploaded file")
		return
	}

	var imagePath string
	if imageHeader != nil {
		imagePath, err = ctl.saveUpload(imageHeader, func(name string, r io.Reader) (string, error) {
			return ctl.store.SaveCoverImage(slug, name, r)
		})
		if err != nil {
			log.Printf("ERROR: storing cover image: %v", err)
			_ = ctl.store.Remove(filePath)
			c.String(http.StatusInternalServerError, "Failed to store the uploaded image")
			return
		}
	}

	userID := auth.GetUserID(c)
	book := &entities.Book{
		Title:             form.Title,
		Description:       form.Description,
		YearOfPublication: year,
		Authors:           authors,
		Genres:            genres,
		FilePath:          filePath,
		ImagePath:         imagePath,
		AddedByID:         &userID,
	}

	if err := ctl.catalog.CreateBook(book); err != nil {
		_ = ctl.store.Remove(filePath)
		_ = ctl.store.Remove(imagePath)

		var fieldErrs validation.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			ctl.renderAddBookForm(c, http.StatusOK, fieldErrs, form)
		case errors.Is(err, catalog.ErrSlugTaken):
			errs.Add("title", err.Error())
			ctl.renderAddBookForm(c, http.StatusOK, errs, form)
		default:
			log.Printf("ERROR: creating book: %v", err)
			c.String(http.StatusInternalServerError, "Failed to add the book")
		}
		return
	}

	c.Redirect(http.StatusFound, "/library/book/"+book.Slug)
}

// saveUpload streams a multipart upload into the asset store.
func (ctl *LibraryController) saveUpload(header *multipart.FileHeader, save func(name string, r io.Reader) (string, error)) (string, error) {
	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return save(header.Filename, f)
}

// DeleteBook removes a book together with its stored assets. The
// placeholder cover survives, it is shared by every book without an
// uploaded image.
func (ctl *LibraryController) DeleteBook(c *gin.Context) {
	book, err := ctl.catalog.GetBookBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.String(http.StatusNotFound, "Book not found")
			return
		}
		log.Printf("ERROR: loading book: %v", err)
		c.String(http.StatusInternalServerError, "Failed to delete the book")
		return
	}

	deleted, err := ctl.catalog.DeleteBook(book.ID)
	if err != nil {
		log.Printf("ERROR: deleting book: %v", err)
		c.String(http.StatusInternalServerError, "Failed to delete the book")
		return
	}

	if err := ctl.store.Remove(deleted.FilePath); err != nil {
		log.Printf("WARN: removing book file: %v", err)
	}
	if err := ctl.store.Remove(deleted.ImagePath); err != nil {
		log.Printf("WARN: removing cover image: %v", err)
	}

	c.Redirect(http.StatusFound, "/library/")
}
