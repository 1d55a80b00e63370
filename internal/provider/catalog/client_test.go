package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		total    int
		expected string
	}{
		{name: "integral number is padded", raw: "25", total: 102, expected: "025/102"},
		{name: "three digit number keeps width", raw: "150", total: 102, expected: "150/102"},
		{name: "non-integral passes through", raw: "SV049", total: 102, expected: "SV049"},
		{name: "unknown total passes through", raw: "25", total: 0, expected: "25"},
		{name: "promo suffix passes through", raw: "25a", total: 102, expected: "25a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.raw, tt.total))
		})
	}
}

func TestItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		switch r.URL.Path {
		case "/sets/base1":
			_, _ = w.Write([]byte(`{"data":{"id":"base1","name":"Base","printedTotal":102}}`))
		case "/cards/base1-25":
			_, _ = w.Write([]byte(`{"data":{"id":"base1-25","name":"Pikachu","number":"25"}}`))
		case "/cards/base1-58":
			_, _ = w.Write([]byte(`{"data":{"id":"base1-58","name":"Poliwag","number":"58"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", time.Second)
	items, err := c.Items(context.Background(), "base1", []string{"25", "58"})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "base1-25", items[0].ID)
	assert.Equal(t, "Pikachu", items[0].Name)
	assert.Equal(t, "Base", items[0].SetName)
	assert.Equal(t, "025/102", items[0].Number)
	assert.Equal(t, "058/102", items[1].Number)
}

func TestItems_UnknownSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.Items(context.Background(), "nope", []string{"1"})
	assert.Error(t, err)
}

func TestItems_UnknownCardFailsRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sets/base1" {
			_, _ = w.Write([]byte(`{"data":{"id":"base1","name":"Base","printedTotal":102}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.Items(context.Background(), "base1", []string{"999"})
	assert.Error(t, err)
}
