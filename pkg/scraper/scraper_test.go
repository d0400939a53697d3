package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestHarvestFollowsLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Advisory Home</title></head>
			<body><main>Welcome to the crop advisory portal with seasonal guidance.</main>
			<a href="/wheat">Wheat</a><a href="/rice">Rice</a></body></html>`)
	})
	mux.HandleFunc("/wheat", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Wheat Advisory</title></head>
			<body><article>Irrigate wheat at crown root initiation for best yield.</article></body></html>`)
	})
	mux.HandleFunc("/rice", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Rice Advisory</title></head>
			<body><article>Transplant rice seedlings after 25 days in the nursery.</article></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := New(Config{MaxPages: 10, MaxDepth: 2, RateLimit: rate.Inf}, nil)
	docs, err := s.Harvest(context.Background(), srv.URL+"/")
	require.NoError(t, err)

	require.Len(t, docs, 3)
	titles := make(map[string]bool)
	for _, doc := range docs {
		titles[doc.Title] = true
		assert.NotEmpty(t, doc.ID)
		assert.NotEmpty(t, doc.Content)
	}
	assert.True(t, titles["Wheat Advisory"])
	assert.True(t, titles["Rice Advisory"])
}

func TestHarvestRespectsMaxPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("p")
		fmt.Fprintf(w, `<html><head><title>Page %s</title></head>
			<body><main>Advisory content for page %s with enough text.</main>
			<a href="/?p=%sa">next</a></body></html>`, page, page, page)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := New(Config{MaxPages: 2, MaxDepth: 10, RateLimit: rate.Inf}, nil)
	docs, err := s.Harvest(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestHarvestSkipsFailedPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Home</title></head>
			<body><main>Root advisory content that links to a broken page.</main>
			<a href="/broken">broken</a></body></html>`)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := New(Config{MaxPages: 10, MaxDepth: 2, RateLimit: rate.Inf}, nil)
	docs, err := s.Harvest(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestHarvestInvalidStartURL(t *testing.T) {
	s := New(Config{RateLimit: rate.Inf}, nil)
	_, err := s.Harvest(context.Background(), "://bad")
	assert.Error(t, err)
}

func TestShouldProcessURL(t *testing.T) {
	s := New(Config{RateLimit: rate.Inf}, nil)
	start, err := url.Parse("https://agri.example.org/advisories/")
	require.NoError(t, err)

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"same host html", "https://agri.example.org/advisories/wheat.html", true},
		{"same host no extension", "https://agri.example.org/advisories/wheat", true},
		{"trailing slash", "https://agri.example.org/crops/", true},
		{"other host", "https://other.example.org/wheat.html", false},
		{"pdf", "https://agri.example.org/guide.pdf", false},
		{"image", "https://agri.example.org/photo.jpg", false},
		{"login page", "https://agri.example.org/login", false},
		{"search page", "https://agri.example.org/search?q=wheat", false},
		{"mailto", "mailto:info@agri.example.org", false},
		{"garbage", "://nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.shouldProcessURL(start, tt.candidate))
		})
	}
}

func TestURLIDStable(t *testing.T) {
	a := urlID("https://agri.example.org/wheat")
	b := urlID("https://agri.example.org/wheat")
	c := urlID("https://agri.example.org/rice")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}
