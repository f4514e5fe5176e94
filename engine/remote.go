package engine

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"snipehunt/experiments/metrics"
	"snipehunt/game"
	"snipehunt/searcher/agent"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// NewRemote plays agents served over HTTP by agent.NewHandler.
func NewRemote(alphaURL, betaURL string, state *game.State) *LocalEngine {
	return NewLocal(NewRemoteAgent(alphaURL), NewRemoteAgent(betaURL), state)
}

type remoteAgent struct {
	url    string
	client *http.Client
}

func NewRemoteAgent(url string) agent.Agent {
	return &remoteAgent{
		url:    strings.TrimSuffix(url, "/") + "/findatomic",
		client: &http.Client{Timeout: time.Minute},
	}
}

// FindAtomic falls back to the first legal atomic when the remote agent
// cannot answer.
func (ra *remoteAgent) FindAtomic(state *game.State) (game.Atomic, metrics.SearchMetric) {
	start := time.Now()
	atomic, err := ra.request(state)
	if err == nil {
		err = state.FailureReason(atomic)
	}
	if err != nil {
		log.Warn().Err(err).Str("url", ra.url).Msg("remote agent failed, playing the first legal atomic")
		legal := state.LegalAtomics()
		if len(legal) == 0 {
			panic("No legal atomics at all")
		}
		atomic = legal[0]
	}
	return atomic, metrics.SearchMetric{Duration: time.Since(start)}
}

func (ra *remoteAgent) request(state *game.State) (game.Atomic, error) {
	text, err := state.Serialize()
	if err != nil {
		return game.Atomic{}, err
	}
	body, err := json.Marshal(struct {
		State string `json:"state"`
	}{State: text})
	if err != nil {
		return game.Atomic{}, err
	}

	resp, err := ra.client.Post(ra.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return game.Atomic{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return game.Atomic{}, fmt.Errorf("agent returned status %d", resp.StatusCode)
	}

	var reply struct {
		Atomic game.Atomic `json:"atomic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return game.Atomic{}, fmt.Errorf("failed to decode atomic: %w", err)
	}
	return reply.Atomic, nil
}
