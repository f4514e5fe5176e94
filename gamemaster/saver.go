package gamemaster

import (
	"os"
	"path/filepath"

	"snipehunt/game"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// SaveVersion changes whenever the session file changes shape. Files of
// another version are treated as absent.
const SaveVersion = 1

type Saver interface {
	// Load returns a nil state when nothing usable is saved.
	Load() (*game.State, []game.Atomic, error)
	Save(state *game.State, future []game.Atomic) error
}

type saved struct {
	Version int           `json:"version"`
	State   string        `json:"state"`
	Future  []game.Atomic `json:"future"`
}

// FileSaver keeps the session in a single JSON file.
type FileSaver struct {
	path string
}

func NewFileSaver(path string) *FileSaver {
	return &FileSaver{path: path}
}

func (fs *FileSaver) Load() (*game.State, []game.Atomic, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read session")
	}

	var s saved
	if err := json.Unmarshal(data, &s); err != nil || s.Version != SaveVersion {
		return nil, nil, nil
	}
	state, ok := game.Deserialize(s.State)
	if !ok {
		return nil, nil, nil
	}
	if !redoable(state, s.Future) {
		return state, nil, nil
	}
	return state, s.Future, nil
}

func (fs *FileSaver) Save(state *game.State, future []game.Atomic) error {
	text, err := state.Serialize()
	if err != nil {
		return err
	}
	if future == nil {
		future = []game.Atomic{}
	}
	data, err := json.Marshal(saved{Version: SaveVersion, State: text, Future: future})
	if err != nil {
		return errors.Wrap(err, "failed to encode session")
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create session directory")
	}
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write session")
	}
	return errors.Wrap(os.Rename(tmp, fs.path), "failed to replace session")
}

// redoable reports whether the future stack replays from state, top first.
func redoable(state *game.State, future []game.Atomic) bool {
	for i := len(future) - 1; i >= 0; i-- {
		next, err := state.TryPerform(future[i])
		if err != nil {
			return false
		}
		state = next
	}
	return true
}
