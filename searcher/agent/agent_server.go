package agent

import (
	"net/http"
	"sync"

	"snipehunt/game"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

type findAtomicRequest struct {
	State string `json:"state"` // Serialized game state
}

type findAtomicResponse struct {
	Atomic game.Atomic `json:"atomic"`
	Text   string      `json:"text"`
}

// NewHandler serves POST /findatomic: the agent's atomic for a serialized
// state. Requests are answered one at a time since agents are not safe for
// concurrent use.
func NewHandler(agent Agent) http.Handler {
	var mu sync.Mutex

	// Create a local mux rather than using the global DefaultServeMux
	mux := http.NewServeMux()
	mux.HandleFunc("/findatomic", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var payload findAtomicRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		state, ok := game.Deserialize(payload.State)
		if !ok {
			http.Error(w, "bad request: invalid state", http.StatusBadRequest)
			return
		}
		if state.IsGameOver() {
			http.Error(w, "game is over", http.StatusConflict)
			return
		}

		mu.Lock()
		atomic, metric := agent.FindAtomic(state)
		mu.Unlock()
		log.Info().Msgf("[AgentServer] Found %s after %d rollouts in %s", atomic, metric.Rollouts, metric.Duration)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(findAtomicResponse{Atomic: atomic, Text: atomic.String()}); err != nil {
			http.Error(w, "failed to encode atomic: "+err.Error(), http.StatusInternalServerError)
		}
	})
	return mux
}
