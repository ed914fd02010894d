package omdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"nomadtool/internal/services/omdb"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := omdb.New("", "https://example.com"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestLookupSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apikey") != "key" {
			t.Fatalf("expected apikey query parameter, got %q", r.URL.RawQuery)
		}
		if q.Get("t") != "The Office" {
			t.Fatalf("unexpected title param: %q", q.Get("t"))
		}
		if q.Get("y") != "2005" {
			t.Fatalf("unexpected year param: %q", q.Get("y"))
		}
		if q.Get("type") != "series" {
			t.Fatalf("unexpected type param: %q", q.Get("type"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Title":"The Office","Year":"2005-2013","Poster":"https://img.example/office.jpg","Type":"series","Response":"True"}`))
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	result, err := client.Lookup(context.Background(), "The Office", omdb.LookupOptions{Year: 2005, Type: omdb.TypeSeries})
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if result == nil || result.Title != "The Office" {
		t.Fatalf("unexpected result: %#v", result)
	}
	if !result.HasPoster() {
		t.Fatal("expected poster to be present")
	}
}

func TestLookupMissReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	result, err := client.Lookup(context.Background(), "No Such Film", omdb.LookupOptions{})
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result on miss, got %#v", result)
	}
}

func TestLookupHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := client.Lookup(context.Background(), "anything", omdb.LookupOptions{}); err == nil {
		t.Fatal("expected error when OMDb returns non-200")
	}
}

func TestSearchReturnsMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("s") != "Office" {
			t.Fatalf("unexpected search param: %q", r.URL.Query().Get("s"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Search":[{"Title":"The Office","Year":"2005"},{"Title":"Office Space","Year":"1999"}],"totalResults":"2","Response":"True"}`))
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	results, err := client.Search(context.Background(), "Office", omdb.LookupOptions{})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 2 || results[0].Title != "The Office" {
		t.Fatalf("unexpected results: %#v", results)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client, err := omdb.New("key", "https://example.com")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Search(context.Background(), "  ", omdb.LookupOptions{}); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestHasPosterRejectsNA(t *testing.T) {
	result := &omdb.Result{Poster: "N/A"}
	if result.HasPoster() {
		t.Fatal("expected N/A poster to be rejected")
	}
}
