package game

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	t.Run("round trip keeps the history", func(t *testing.T) {
		rng := newRng(9)
		state := randomWalk(NewRandom(rng), rng, 41, nil)

		text, err := state.Serialize()
		require.NoError(t, err)
		restored, ok := Deserialize(text)

		require.True(t, ok)
		require.Equal(t, state.Initial(), restored.Initial())
		require.Equal(t, state.Packed(), restored.Packed())
		require.Equal(t, state.Turn(), restored.Turn())
		require.Equal(t, state.Plies(), restored.Plies())
		require.Equal(t, state.History(), restored.History())
	})

	t.Run("mid-turn state", func(t *testing.T) {
		state := betaOpening(t).ForcePerform(NewAnimalStep(k2(Mouse), Row4))

		text, err := state.Serialize()
		require.NoError(t, err)
		restored, ok := Deserialize(text)

		require.True(t, ok)
		pending, ok := restored.Pending()
		require.True(t, ok)
		require.Equal(t, NewAnimalStep(k2(Mouse), Row4), pending)
	})

	t.Run("other version is absent", func(t *testing.T) {
		text, err := NewRandom(newRng(2)).Serialize()
		require.NoError(t, err)
		require.Contains(t, text, `"version":1`)

		_, ok := Deserialize(strings.Replace(text, `"version":1`, `"version":99`, 1))

		require.False(t, ok)
	})

	t.Run("malformed text is absent", func(t *testing.T) {
		for _, text := range []string{"", "not json", "{}", `{"version":1}`} {
			_, ok := Deserialize(text)
			require.False(t, ok, "Text %q should not deserialize", text)
		}
	})

	t.Run("inconsistent board is absent", func(t *testing.T) {
		state := NewRandom(newRng(2))
		current := state.Packed()
		current.clearSnipe(Row6, Beta)
		current.setSnipe(Row5, Beta)
		data, err := json.Marshal(record{
			Version: StateVersion,
			Initial: state.Initial(),
			Current: current,
			Turn:    Beta,
			Plies:   []Ply{},
		})
		require.NoError(t, err)

		_, ok := Deserialize(string(data))

		require.False(t, ok, "Current board must match the replayed history")
	})
}

func TestCanonicalKey(t *testing.T) {
	t.Run("position identity ignores history", func(t *testing.T) {
		state := NewRandom(newRng(4))
		other := &State{initial: Packed{}, board: state.board, turn: state.turn, plies: []Ply{encodeSnipeStep(Row5)}}

		require.Len(t, state.CanonicalKey(), 68)
		require.Equal(t, state.CanonicalKey(), other.CanonicalKey())
	})

	t.Run("turn and pending half-turn are part of the key", func(t *testing.T) {
		state := NewRandom(newRng(4))
		flipped := &State{initial: state.initial, board: state.board, turn: Alpha}
		pending := &State{initial: state.initial, board: state.board, turn: state.turn, pending: encodePending(NewAnimalStep(0, Row2))}

		require.NotEqual(t, state.CanonicalKey(), flipped.CanonicalKey())
		require.NotEqual(t, state.CanonicalKey(), pending.CanonicalKey())
	})

	t.Run("board changes the key", func(t *testing.T) {
		state := NewRandom(newRng(4))

		next := state.ForcePerform(NewSnipeStep(Row5))

		require.NotEqual(t, state.CanonicalKey(), next.CanonicalKey())
	})
}
