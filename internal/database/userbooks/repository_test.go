package userbooks

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"booklibrary/internal/database"
	"booklibrary/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_userbooks_" + t.Name() + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return NewRepository(db.DB), db.DB, cleanup
}

func createUser(t *testing.T, db *gorm.DB, username string) entities.User {
	user := entities.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createBook(t *testing.T, db *gorm.DB, title, slug string) entities.Book {
	book := entities.Book{Title: title, Slug: slug, YearOfPublication: 2000}
	require.NoError(t, db.Create(&book).Error)
	return book
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, FilterRead, ParseFilter("read"))
	assert.Equal(t, FilterUnread, ParseFilter("unread"))
	assert.Equal(t, FilterAll, ParseFilter(""))
	assert.Equal(t, FilterAll, ParseFilter("garbage"))
}

func TestRepository_Add(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createUser(t, db, "alice")
	book := createBook(t, db, "War and Peace", "war-and-peace")

	instance, err := repo.Add(user.ID, book.ID)

	require.NoError(t, err)
	assert.NotZero(t, instance.ID)
	assert.False(t, instance.IsRead)
}

func TestRepository_Add_Duplicate(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createUser(t, db, "alice")
	book := createBook(t, db, "War and Peace", "war-and-peace")

	_, err := repo.Add(user.ID, book.ID)
	require.NoError(t, err)

	_, err = repo.Add(user.ID, book.ID)
	assert.ErrorIs(t, err, ErrDuplicate)

	var count int64
	db.Model(&entities.UserBookInstance{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRepository_Add_SameBookDifferentUsers(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	book := createBook(t, db, "War and Peace", "war-and-peace")

	_, err := repo.Add(alice.ID, book.ID)
	require.NoError(t, err)
	_, err = repo.Add(bob.ID, book.ID)
	require.NoError(t, err)
}

func TestRepository_Remove(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createUser(t, db, "alice")
	book := createBook(t, db, "War and Peace", "war-and-peace")
	_, err := repo.Add(user.ID, book.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Remove(user.ID, book.ID))

	_, err = repo.Get(user.ID, book.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Remove_NotInLibrary(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createUser(t, db, "alice")
	book := createBook(t, db, "War and Peace", "war-and-peace")

	err := repo.Remove(user.ID, book.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Remove_LeavesOtherUsersAlone(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	book := createBook(t, db, "War and Peace", "war-and-peace")

	_, err := repo.Add(alice.ID, book.ID)
	require.NoError(t, err)
	_, err = repo.Add(bob.ID, book.ID)
	require.NoError(t, err)
	_, err = repo.ToggleRead(bob.ID, book.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Remove(alice.ID, book.ID))

	// Bob's instance and read flag survive
	instance, err := repo.Get(bob.ID, book.ID)
	require.NoError(t, err)
	assert.True(t, instance.IsRead)
}

func TestRepository_ToggleRead_IsAnInvolution(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createUser(t, db, "alice")
	book := createBook(t, db, "War and Peace", "war-and-peace")
	_, err := repo.Add(user.ID, book.ID)
	require.NoError(t, err)

	isRead, err := repo.ToggleRead(user.ID, book.ID)
	require.NoError(t, err)
	assert.True(t, isRead)

	isRead, err = repo.ToggleRead(user.ID, book.ID)
	require.NoError(t, err)
	assert.False(t, isRead)
}

func TestRepository_ToggleRead_NotInLibrary(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createUser(t, db, "alice")
	book := createBook(t, db, "War and Peace", "war-and-peace")

	_, err := repo.ToggleRead(user.ID, book.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_List_Filters(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := createUser(t, db, "alice")
	war := createBook(t, db, "War and Peace", "war-and-peace")
	trial := createBook(t, db, "The Trial", "the-trial")

	_, err := repo.Add(user.ID, war.ID)
	require.NoError(t, err)
	_, err = repo.Add(user.ID, trial.ID)
	require.NoError(t, err)
	_, err = repo.ToggleRead(user.ID, war.ID)
	require.NoError(t, err)

	all, err := repo.List(user.ID, FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	read, err := repo.List(user.ID, FilterRead)
	require.NoError(t, err)
	require.Len(t, read, 1)
	assert.Equal(t, war.ID, read[0].BookID)
	assert.Equal(t, "War and Peace", read[0].Book.Title)

	unread, err := repo.List(user.ID, FilterUnread)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, trial.ID, unread[0].BookID)
}
