package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklibrary/internal/entities"
)

func newUserLibraryRouter(app *testApp, userID uint) *gin.Engine {
	router := newTestEngine(userID, "")
	ctl := NewUserLibraryController(app.catalog, app.userBooks)
	router.POST("/library/add/:id", ctl.Add)
	router.POST("/library/remove/:id", ctl.Remove)
	router.POST("/library/read/:id", ctl.ToggleRead)
	router.GET("/user_library/", ctl.Page)
	router.GET("/user_library_filter/", ctl.FilterPartial)
	return router
}

func seedUser(t *testing.T, app *testApp, username string) entities.User {
	t.Helper()
	user := entities.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, app.db.DB.Create(&user).Error)
	return user
}

func postPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestUserLibrary_Add(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	user := seedUser(t, app, "alice")
	book := seedBook(t, app, "War and Peace")
	router := newUserLibraryRouter(app, user.ID)

	w := postPath(router, "/library/add/1")

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/library/book/war-and-peace", w.Header().Get("Location"))

	_, err := app.userBooks.Get(user.ID, book.ID)
	assert.NoError(t, err)
}

func TestUserLibrary_Add_DuplicateIsConflict(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	user := seedUser(t, app, "alice")
	seedBook(t, app, "War and Peace")
	router := newUserLibraryRouter(app, user.ID)

	require.Equal(t, http.StatusFound, postPath(router, "/library/add/1").Code)
	assert.Equal(t, http.StatusConflict, postPath(router, "/library/add/1").Code)
}

func TestUserLibrary_Add_UnknownBook(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	user := seedUser(t, app, "alice")
	router := newUserLibraryRouter(app, user.ID)

	assert.Equal(t, http.StatusNotFound, postPath(router, "/library/add/42").Code)
}

func TestUserLibrary_Add_InvalidID(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	user := seedUser(t, app, "alice")
	router := newUserLibraryRouter(app, user.ID)

	assert.Equal(t, http.StatusBadRequest, postPath(router, "/library/add/garbage").Code)
}

func TestUserLibrary_Remove(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	user := seedUser(t, app, "alice")
	book := seedBook(t, app, "War and Peace")
	_, err := app.userBooks.Add(user.ID, book.ID)
	require.NoError(t, err)

	router := newUserLibraryRouter(app, user.ID)

	require.Equal(t, http.StatusFound, postPath(router, "/library/remove/1").Code)
	// Removing again is a 404, the book is no longer in the library
	assert.Equal(t, http.StatusNotFound, postPath(router, "/library/remove/1").Code)
}

func TestUserLibrary_ToggleRead(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	user := seedUser(t, app, "alice")
	book := seedBook(t, app, "War and Peace")
	_, err := app.userBooks.Add(user.ID, book.ID)
	require.NoError(t, err)

	router := newUserLibraryRouter(app, user.ID)

	w := postPath(router, "/library/read/1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["is_read"])

	w = postPath(router, "/library/read/1")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp["is_read"])
}

func TestUserLibrary_ToggleRead_NotInLibrary(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	user := seedUser(t, app, "alice")
	seedBook(t, app, "War and Peace")
	router := newUserLibraryRouter(app, user.ID)

	assert.Equal(t, http.StatusNotFound, postPath(router, "/library/read/1").Code)
}

func TestUserLibrary_Page_Filters(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	user := seedUser(t, app, "alice")
	war := seedBook(t, app, "War and Peace")
	trial := seedBook(t, app, "The Trial")

	_, err := app.userBooks.Add(user.ID, war.ID)
	require.NoError(t, err)
	_, err = app.userBooks.Add(user.ID, trial.ID)
	require.NoError(t, err)
	_, err = app.userBooks.ToggleRead(user.ID, war.ID)
	require.NoError(t, err)

	router := newUserLibraryRouter(app, user.ID)

	get := func(path string) string {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		return w.Body.String()
	}

	assert.Equal(t, "user_library:2", get("/user_library/"))
	assert.Equal(t, "user_library:1", get("/user_library/?filter=read"))
	assert.Equal(t, "user_library:1", get("/user_library/?filter=unread"))
	// Unknown filter values mean no restriction
	assert.Equal(t, "user_library:2", get("/user_library/?filter=garbage"))
	assert.Equal(t, "user_book_list:2", get("/user_library_filter/"))
}
