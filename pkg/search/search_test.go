package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeES struct {
	mu      sync.Mutex
	indices map[string]bool
	docs    map[string]string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/":
		io.WriteString(w, `{"version":{"number":"8.19.0"},"tagline":"You Know, for Search"}`)
	case len(parts) == 1 && r.Method == http.MethodHead:
		if !f.indices[parts[0]] {
			w.WriteHeader(http.StatusNotFound)
		}
	case len(parts) == 1 && r.Method == http.MethodPut:
		f.indices[parts[0]] = true
		io.WriteString(w, `{"acknowledged":true}`)
	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodDelete:
		if _, ok := f.docs[parts[2]]; !ok {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		delete(f.docs, parts[2])
		io.WriteString(w, `{"result":"deleted"}`)
	case len(parts) == 3 && parts[1] == "_doc":
		body, _ := io.ReadAll(r.Body)
		f.docs[parts[2]] = string(body)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"result":"created"}`)
	case len(parts) == 2 && parts[1] == "_search":
		type hit struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		}
		var hits []hit
		for id, doc := range f.docs {
			hits = append(hits, hit{ID: id, Source: json.RawMessage(doc)})
		}
		out := map[string]any{"hits": map[string]any{"total": map[string]int{"value": len(hits)}, "hits": hits}}
		json.NewEncoder(w).Encode(out)
	default:
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"unexpected"}`)
	}
}

func newTestClient(t *testing.T) (*Client, *fakeES) {
	t.Helper()
	fake := &fakeES{indices: map[string]bool{}, docs: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := NewClient(&Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return c, fake
}

func TestClient_IndexSearchDelete(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient(t)

	require.NoError(t, c.CreateIndex(ctx, "products", `{"mappings":{}}`))
	require.NoError(t, c.CreateIndex(ctx, "products", `{"mappings":{}}`))
	assert.True(t, fake.indices["products"])

	require.NoError(t, c.Index(ctx, "products", "p1", map[string]string{"name": "Shadow Hoodie"}))

	res, err := c.Search(ctx, "products", map[string]any{"query": map[string]any{"match_all": map[string]any{}}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Hits.Total.Value)
	require.Len(t, res.Hits.Hits, 1)
	assert.Equal(t, "p1", res.Hits.Hits[0].ID)
	assert.Contains(t, string(res.Hits.Hits[0].Source), "Shadow Hoodie")

	require.NoError(t, c.Delete(ctx, "products", "p1"))
	require.NoError(t, c.Delete(ctx, "products", "p1"))
	assert.Empty(t, fake.docs)
}
