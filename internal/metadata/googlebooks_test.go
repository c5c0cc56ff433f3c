package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const volumesPayload = `{
	"totalItems": 2,
	"items": [
		{
			"id": "abc",
			"volumeInfo": {
				"title": "Dune",
				"authors": ["Frank Herbert"],
				"publisher": "Chilton Books",
				"publishedDate": "1965-08-01",
				"pageCount": 412,
				"categories": ["Fiction / Science Fiction / General"],
				"industryIdentifiers": [
					{"type": "ISBN_10", "identifier": "0441013597"},
					{"type": "ISBN_13", "identifier": "9780441013593"}
				],
				"imageLinks": {
					"smallThumbnail": "http://books.google.com/small.jpg",
					"thumbnail": "http://books.google.com/thumb.jpg"
				}
			}
		},
		{
			"id": "def",
			"volumeInfo": {
				"title": "Dune Messiah",
				"authors": ["Frank Herbert"],
				"industryIdentifiers": [
					{"type": "ISBN_10", "identifier": "0441104029"}
				]
			}
		}
	]
}`

func TestGoogleBooksClient_Search(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "en", r.URL.Query().Get("langRestrict"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(volumesPayload))
	}))
	defer server.Close()

	client := NewGoogleBooksClient(server.URL, time.Second)
	results, err := client.Search(context.Background(), `inauthor:"Frank Herbert"`, 10)

	require.NoError(t, err)
	assert.Equal(t, `inauthor:"Frank Herbert"`, gotQuery)
	require.Len(t, results, 2)

	dune := results[0]
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, []string{"Frank Herbert"}, dune.Authors)
	assert.Equal(t, 1965, dune.PublishedYear)
	assert.Equal(t, 412, dune.PageCount)
	// Slash-joined category paths are split into individual names.
	assert.Equal(t, []string{"Fiction", "Science Fiction", "General"}, dune.Categories)
	// ISBN-13 wins over ISBN-10.
	assert.Equal(t, "9780441013593", dune.ISBN)
	// Cover links are upgraded to https.
	assert.Equal(t, "https://books.google.com/thumb.jpg", dune.CoverURL)

	// ISBN-10 fallback when no 13 exists.
	assert.Equal(t, "0441104029", results[1].ISBN)
	assert.Empty(t, results[1].CoverURL)
}

func TestGoogleBooksClient_SearchByISBN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "isbn:9780441013593", r.URL.Query().Get("q"))
		w.Write([]byte(volumesPayload))
	}))
	defer server.Close()

	client := NewGoogleBooksClient(server.URL, time.Second)
	result, err := client.SearchByISBN(context.Background(), "978-0-441-01359-3")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Dune", result.Title)
}

func TestGoogleBooksClient_SearchByISBN_Invalid(t *testing.T) {
	client := NewGoogleBooksClient("http://unused", time.Second)
	_, err := client.SearchByISBN(context.Background(), "not-an-isbn")
	assert.Error(t, err)
}

func TestGoogleBooksClient_SearchByISBN_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems": 0, "items": []}`))
	}))
	defer server.Close()

	client := NewGoogleBooksClient(server.URL, time.Second)
	result, err := client.SearchByISBN(context.Background(), "9780441013593")

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestGoogleBooksClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewGoogleBooksClient(server.URL, time.Second)
	_, err := client.Search(context.Background(), "anything", 5)
	assert.Error(t, err)
}

func TestGoogleBooksClient_SubjectAndAuthorQueries(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		w.Write([]byte(`{"totalItems": 0, "items": []}`))
	}))
	defer server.Close()

	client := NewGoogleBooksClient(server.URL, time.Second)
	_, err := client.SearchByAuthor(context.Background(), "Frank Herbert", 5)
	require.NoError(t, err)
	_, err = client.SearchBySubject(context.Background(), "Sci-Fi", 5)
	require.NoError(t, err)

	assert.Equal(t, []string{`inauthor:"Frank Herbert"`, `subject:"Sci-Fi"`}, queries)
}
