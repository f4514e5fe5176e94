package gamemaster

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"snipehunt/game"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, view) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	var v view
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	}
	return rec, v
}

func TestHandler(t *testing.T) {
	s := fresh(t)
	h := NewHandler(s)

	t.Run("get", func(t *testing.T) {
		rec, v := call(t, h, http.MethodGet, "/session", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, serialized(t, s.State()), v.State)
		require.Equal(t, s.State().LegalAtomics(), v.Legal)
		require.Empty(t, v.Future)
	})

	t.Run("perform undo redo", func(t *testing.T) {
		a := s.State().LegalAtomics()[0]

		rec, _ := call(t, h, http.MethodPost, "/session/perform", performRequest{Atomic: a})
		require.Equal(t, http.StatusOK, rec.Code)

		rec, v := call(t, h, http.MethodPost, "/session/undo", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, []game.Atomic{a}, v.Future)

		rec, v = call(t, h, http.MethodPost, "/session/redo", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, v.Future)
	})

	t.Run("refusals", func(t *testing.T) {
		rec, _ := call(t, h, http.MethodPost, "/session/redo", nil)
		require.Equal(t, http.StatusConflict, rec.Code)

		rec, _ = call(t, h, http.MethodPost, "/session/perform", performRequest{Atomic: game.NewSnipeStep(game.BetaReserve)})
		require.Equal(t, http.StatusConflict, rec.Code)

		rec, _ = call(t, h, http.MethodGet, "/session/undo", nil)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("reset", func(t *testing.T) {
		rec, v := call(t, h, http.MethodPost, "/session/reset", resetRequest{Seed: 9})

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, serialized(t, s.State()), v.State)
		require.Empty(t, s.State().History())
	})
}
