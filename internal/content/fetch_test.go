package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchUsesServerContent(t *testing.T) {
	t.Parallel()

	want, err := Decode(strings.NewReader(minimalYAML))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != ContentPath {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	got, err := Fetch(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, "Sam Lee", got.Owner.Name)
	assert.Len(t, got.Projects, 2)
}

func TestFetchFallsBackToDefault(t *testing.T) {
	t.Parallel()

	def, err := Default()
	require.NoError(t, err)

	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		},
		"invalid content": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"owner":{"name":""}}`))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(handler)
			defer srv.Close()

			got, err := Fetch(context.Background(), srv.URL)
			require.Error(t, err)
			require.NotNil(t, got)
			assert.Equal(t, def.Owner.Name, got.Owner.Name)
		})
	}
}
