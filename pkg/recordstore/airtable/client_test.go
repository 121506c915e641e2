package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-carousel-bot/pkg/recordstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("token", "appBase", "Таблица генераций")
	c.baseURL = srv.URL
	return c
}

func TestCreate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/appBase/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var payload recordPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.True(t, payload.Typecast)
		assert.Equal(t, "Границы", payload.Fields["Тема от пользователя"])

		fmt.Fprint(w, `{"id":"recABC123","fields":{}}`)
	})

	c := testStore(t, mux)
	id, err := c.Create(context.Background(), recordstore.Fields{"Тема от пользователя": "Границы"})
	require.NoError(t, err)
	assert.Equal(t, "recABC123", id)
}

func TestGet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/appBase/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		fmt.Fprint(w, `{"id":"recABC123","fields":{"Prompt_slide2":"новый промпт"}}`)
	})

	c := testStore(t, mux)
	fields, err := c.Get(context.Background(), "recABC123")
	require.NoError(t, err)
	assert.Equal(t, "новый промпт", fields["Prompt_slide2"])
}

func TestUpdate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/appBase/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		fmt.Fprint(w, `{"id":"recABC123","fields":{}}`)
	})

	c := testStore(t, mux)
	err := c.Update(context.Background(), "recABC123", recordstore.Fields{"Post_text": "текст"})
	assert.NoError(t, err)
}

func TestErrorStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"error":{"type":"INVALID_VALUE_FOR_COLUMN"}}`)
	})

	c := testStore(t, mux)
	_, err := c.Create(context.Background(), recordstore.Fields{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
