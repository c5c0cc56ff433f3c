package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanzak/bookden/internal/database"
	"github.com/ivanzak/bookden/internal/database/books"
	"github.com/ivanzak/bookden/internal/database/shelves"
	"github.com/ivanzak/bookden/internal/entities"
)

func setupShelvesTest(t *testing.T) (*books.Repository, *gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_shelves_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	bookRepo := books.NewRepository(db.DB)
	controller := NewShelvesController(shelves.NewRepository(db.DB), bookRepo)

	router := gin.New()
	router.GET("/api/shelves", controller.List)
	router.POST("/api/shelves", controller.Create)
	router.GET("/api/shelves/:id", controller.Get)
	router.PATCH("/api/shelves/:id", controller.Rename)
	router.DELETE("/api/shelves/:id", controller.Delete)
	router.GET("/api/shelves/:id/books", controller.Books)
	router.POST("/api/shelves/:id/books/:bookId", controller.AddBook)
	router.DELETE("/api/shelves/:id/books/:bookId", controller.RemoveBook)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return bookRepo, router, cleanup
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestShelvesController_Create(t *testing.T) {
	t.Run("creates shelf", func(t *testing.T) {
		_, router, cleanup := setupShelvesTest(t)
		defer cleanup()

		w := postJSON(t, router, "/api/shelves", gin.H{"name": "To Read"})

		require.Equal(t, http.StatusCreated, w.Code)

		var shelf entities.Shelf
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shelf))
		assert.NotZero(t, shelf.ID)
		assert.Equal(t, "To Read", shelf.Name)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, router, cleanup := setupShelvesTest(t)
		defer cleanup()

		w := postJSON(t, router, "/api/shelves", gin.H{"name": "   "})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestShelvesController_Rename(t *testing.T) {
	_, router, cleanup := setupShelvesTest(t)
	defer cleanup()

	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/shelves", gin.H{"name": "Old Name"}).Code)

	w := patchJSON(t, router, "/api/shelves/1", gin.H{"name": "New Name"})
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/shelves/1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "New Name")
}

func TestShelvesController_Books(t *testing.T) {
	t.Run("returns 404 for missing shelf", func(t *testing.T) {
		_, router, cleanup := setupShelvesTest(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/shelves/99/books", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("lists shelved books in added order", func(t *testing.T) {
		bookRepo, router, cleanup := setupShelvesTest(t)
		defer cleanup()

		first, err := bookRepo.Create(books.CreateInput{Title: "First On Shelf"})
		require.NoError(t, err)
		second, err := bookRepo.Create(books.CreateInput{Title: "Second On Shelf"})
		require.NoError(t, err)

		require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/shelves", gin.H{"name": "Favourites"}).Code)

		for _, id := range []uint{second.ID, first.ID} {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/shelves/1/books/"+itoa(id), nil)
			router.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/shelves/1/books", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Books []entities.Book `json:"books"`
			Count int             `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Equal(t, 2, response.Count)
		assert.Equal(t, "Second On Shelf", response.Books[0].Title)
		assert.Equal(t, "First On Shelf", response.Books[1].Title)
	})

	t.Run("adding twice is a no-op", func(t *testing.T) {
		bookRepo, router, cleanup := setupShelvesTest(t)
		defer cleanup()

		book, err := bookRepo.Create(books.CreateInput{Title: "Duplicate Candidate"})
		require.NoError(t, err)

		require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/shelves", gin.H{"name": "Shelf"}).Code)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/shelves/1/books/"+itoa(book.ID), nil)
			router.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/shelves/1/books", nil)
		router.ServeHTTP(w, req)

		var response struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 1, response.Count)
	})

	t.Run("rejects adding missing book", func(t *testing.T) {
		_, router, cleanup := setupShelvesTest(t)
		defer cleanup()

		require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/shelves", gin.H{"name": "Shelf"}).Code)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/shelves/1/books/42", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestShelvesController_RemoveBook(t *testing.T) {
	bookRepo, router, cleanup := setupShelvesTest(t)
	defer cleanup()

	book, err := bookRepo.Create(books.CreateInput{Title: "Shelved"})
	require.NoError(t, err)

	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/shelves", gin.H{"name": "Shelf"}).Code)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/shelves/1/books/"+itoa(book.ID), nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/shelves/1/books/"+itoa(book.ID), nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// The book itself is untouched
	remaining, err := bookRepo.GetByID(book.ID)
	require.NoError(t, err)
	assert.NotNil(t, remaining)
}

func TestShelvesController_Delete(t *testing.T) {
	bookRepo, router, cleanup := setupShelvesTest(t)
	defer cleanup()

	book, err := bookRepo.Create(books.CreateInput{Title: "Survivor"})
	require.NoError(t, err)

	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/shelves", gin.H{"name": "Short-lived"}).Code)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/shelves/1/books/"+itoa(book.ID), nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/shelves/1", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/shelves/1", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Deleting the shelf keeps the book
	remaining, err := bookRepo.GetByID(book.ID)
	require.NoError(t, err)
	assert.NotNil(t, remaining)
}
