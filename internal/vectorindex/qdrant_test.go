package vectorindex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"complaintflow/internal/models"

	"github.com/stretchr/testify/require"
)

func TestUpsertSendsNumericPointWithPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/collections/complaints-index/points", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("wait"))
		require.Equal(t, "secret", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	idx := New(Config{URL: srv.URL, APIKey: "secret", Collection: "complaints-index"})
	err := idx.Upsert(context.Background(), "42", []float32{0.1, 0.2}, models.IndexMetadata{
		Text:    "narrative",
		Summary: "summary",
		Company: "EQUIFAX, INC.",
	})
	require.NoError(t, err)

	points := got["points"].([]any)
	require.Len(t, points, 1)
	point := points[0].(map[string]any)
	require.Equal(t, float64(42), point["id"])
	payload := point["payload"].(map[string]any)
	require.Equal(t, "narrative", payload["text"])
	require.Equal(t, "EQUIFAX, INC.", payload["company"])
}

func TestQueryParsesMatchesAndDefaultsTopK(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections/c/points/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"result":[
			{"id":7,"score":0.93,"payload":{"text":"a","summary":"s","category":"Billing","product":"Credit card","company":"Acme"}},
			{"id":3,"score":0.81,"payload":{"text":"b"}}
		]}`))
	}))
	defer srv.Close()

	idx := New(Config{URL: srv.URL, Collection: "c"})
	matches, err := idx.Query(context.Background(), []float32{0.5}, 0)
	require.NoError(t, err)
	require.Equal(t, float64(5), got["limit"])
	require.Equal(t, true, got["with_payload"])
	require.Len(t, matches, 2)
	require.Equal(t, "7", matches[0].ID)
	require.Equal(t, 0.93, matches[0].Score)
	require.Equal(t, "Billing", matches[0].Metadata.Category)
	require.Equal(t, "3", matches[1].ID)
	require.Empty(t, matches[1].Metadata.Company)
}

func TestUpsertSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":{"error":"bad vector size"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	idx := New(Config{URL: srv.URL, Collection: "c"})
	err := idx.Upsert(context.Background(), "1", []float32{0.1}, models.IndexMetadata{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad vector size")
}
