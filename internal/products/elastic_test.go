package products

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ecom_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestElastic(t *testing.T, handler http.HandlerFunc) *SearchIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewSearchIndex(es)
}

func TestNewSearchIndexNilClient(t *testing.T) {
	assert.Nil(t, NewSearchIndex(nil))
}

func TestSearchIndexSearch(t *testing.T) {
	var body map[string]any
	idx := setupTestElastic(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/products/_search"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_source":{"name":"Rim Lock","slug":"rim-lock","isPublished":true}}]}}`))
	})

	got, err := idx.Search(context.Background(), "rim", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rim-lock", got[0].Slug)
	assert.EqualValues(t, 5, body["size"])
}

func TestSearchIndexErrorStatus(t *testing.T) {
	idx := setupTestElastic(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"index_not_found_exception"}`))
	})

	_, err := idx.Search(context.Background(), "rim", 5)
	assert.Error(t, err)
}

func TestServiceSearchFallsBackWhenElasticFails(t *testing.T) {
	idx := setupTestElastic(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	repo := &fakeRepository{products: []models.Product{product("Rim Lock", "Door Locks", "Rim Locks", 1)}}
	svc := NewService(repo, idx, nil, nil)

	got, err := svc.Search(context.Background(), "rim", 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, repo.searchCalls)
}

func TestReindexAll(t *testing.T) {
	var paths []string
	idx := setupTestElastic(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	a := product("A", "Door Locks", "Rim Locks", 1)
	hidden := product("B", "Door Locks", "Rim Locks", 1)
	hidden.IsPublished = false
	svc := NewService(&fakeRepository{products: []models.Product{a, hidden}}, idx, nil, nil)

	n, err := svc.ReindexAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"PUT /products/_doc/" + a.ID.Hex()}, paths)
}

func TestReindexAllWithoutSearch(t *testing.T) {
	svc := NewService(&fakeRepository{}, nil, nil, nil)
	_, err := svc.ReindexAll(context.Background())
	assert.Error(t, err)
}
