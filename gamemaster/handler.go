package gamemaster

import (
	"net/http"

	"snipehunt/game"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

type view struct {
	State  string        `json:"state"` // Serialized game state
	Turn   string        `json:"turn"`
	Winner string        `json:"winner,omitempty"`
	Future []game.Atomic `json:"future"`
	Legal  []game.Atomic `json:"legal"`
}

type performRequest struct {
	Atomic game.Atomic `json:"atomic"`
}

type resetRequest struct {
	Seed uint64 `json:"seed"`
}

// NewHandler exposes a session over HTTP. Every route answers with the
// session after the request.
func NewHandler(s *Session) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		respond(w, s)
	})
	mux.HandleFunc("/session/perform", post(s, func(r *http.Request) (int, error) {
		var payload performRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return http.StatusBadRequest, err
		}
		return http.StatusConflict, s.Perform(payload.Atomic)
	}))
	mux.HandleFunc("/session/undo", post(s, func(*http.Request) (int, error) {
		return http.StatusConflict, s.Undo()
	}))
	mux.HandleFunc("/session/redo", post(s, func(*http.Request) (int, error) {
		return http.StatusConflict, s.Redo()
	}))
	mux.HandleFunc("/session/reset", post(s, func(r *http.Request) (int, error) {
		var payload resetRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return http.StatusBadRequest, err
		}
		s.Reset(payload.Seed)
		return http.StatusOK, nil
	}))
	return mux
}

// post runs change for POST requests. On failure change reports the status
// to answer with.
func post(s *Session, change func(*http.Request) (int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if status, err := change(r); err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("session request refused")
			http.Error(w, err.Error(), status)
			return
		}
		respond(w, s)
	}
}

func respond(w http.ResponseWriter, s *Session) {
	state := s.State()
	text, err := state.Serialize()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	v := view{
		State:  text,
		Turn:   state.Turn().String(),
		Future: s.Future(),
		Legal:  state.LegalAtomics(),
	}
	if winner, ok := state.Winner(); ok {
		v.Winner = winner.String()
	}
	if v.Future == nil {
		v.Future = []game.Atomic{}
	}
	if v.Legal == nil {
		v.Legal = []game.Atomic{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode session: "+err.Error(), http.StatusInternalServerError)
	}
}
