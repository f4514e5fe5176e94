package communication

import (
	"context"
	"fmt"
	"time"

	"snipehunt/game"
	"snipehunt/searcher"
	"snipehunt/worker"

	json "github.com/goccy/go-json"
)

// Communicator abstracts where the search runs: a local worker or a remote
// one behind the websocket protocol.
type Communicator interface {
	Update(ctx context.Context, state *game.State, thinkingTime time.Duration) error
	Pause(ctx context.Context) (*searcher.Checkpoint, bool)
	Resume(ctx context.Context, checkpoint *searcher.Checkpoint) error
	Notifications() <-chan worker.Notification
}

var _ Communicator = (*worker.Worker)(nil)

// Message types of the control protocol.
const (
	TypeUpdate   = "update"
	TypePause    = "pause"
	TypeResume   = "resume"
	TypeSnapshot = "snapshot"
	TypePaused   = "paused"
	TypeError    = "error"
)

// Message is the envelope of every frame. Data depends on Type.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type Update struct {
	State          string `json:"state"` // Serialized game state
	ThinkingTimeMs int64  `json:"thinkingTimeMs"`
}

// Resume and Paused carry gob-encoded checkpoints, base64 in JSON.
type Resume struct {
	Checkpoint []byte `json:"checkpoint"`
}

type Paused struct {
	Checkpoint []byte `json:"checkpoint,omitempty"`
}

type Snapshot struct {
	Snapshot *searcher.Snapshot `json:"snapshot"`
}

type Error struct {
	Message string `json:"message"`
}

func NewMessage(kind string, data any) (Message, error) {
	if data == nil {
		return Message{Type: kind}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode %s message: %w", kind, err)
	}
	return Message{Type: kind, Data: raw}, nil
}

func (m Message) Decode(data any) error {
	if err := json.Unmarshal(m.Data, data); err != nil {
		return fmt.Errorf("failed to decode %s message: %w", m.Type, err)
	}
	return nil
}

func ThinkingTime(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
