package game

import (
	"encoding/binary"
	"fmt"

	json "github.com/goccy/go-json"
)

// StateVersion changes whenever the serialized record changes shape. Records
// of another version are treated as absent.
const StateVersion = 1

type record struct {
	Version int    `json:"version"`
	Initial Packed `json:"initial"`
	Current Packed `json:"current"`
	Turn    Player `json:"turn"`
	Plies   []Ply  `json:"plies"`
	Pending uint32 `json:"pending"`
}

// Serialize encodes the full state, including its history, as text.
func (s *State) Serialize() (string, error) {
	plies := s.plies
	if plies == nil {
		plies = []Ply{}
	}
	data, err := json.Marshal(record{
		Version: StateVersion,
		Initial: s.initial,
		Current: s.board,
		Turn:    s.turn,
		Plies:   plies,
		Pending: s.pending,
	})
	if err != nil {
		return "", fmt.Errorf("failed to serialize state: %w", err)
	}
	return string(data), nil
}

// Deserialize decodes a serialized state. It returns false for records of
// another version and for records that are malformed or inconsistent.
func Deserialize(text string) (*State, bool) {
	var r record
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return nil, false
	}
	if r.Version != StateVersion || r.Turn > Beta {
		return nil, false
	}
	if err := Decode(r.Initial).Validate(); err != nil {
		return nil, false
	}
	for _, ply := range r.Plies {
		if !validPly(ply) {
			return nil, false
		}
	}

	logged := &State{plies: r.Plies, pending: r.Pending}
	state, err := Replay(r.Initial, logged.History())
	if err != nil {
		return nil, false
	}
	if state.board != r.Current || state.turn != r.Turn || state.pending != r.Pending {
		return nil, false
	}
	return state, true
}

const keyGroups = 2*2*NumLocations + 2

// CanonicalKey identifies the position: the board, the side to move and
// whether a half-turn is pending. States reached through different histories
// share a key when their positions agree.
func (s *State) CanonicalKey() string {
	var key [keyGroups * 2]byte
	i := 0
	put := func(group uint16) {
		binary.BigEndian.PutUint16(key[i:], group)
		i += 2
	}

	var snipes uint16
	for _, l := range AllLocations {
		base := int(l) * wordsPerLocation
		for _, word := range []uint32{s.board[base+offsetAlphaAnimals], s.board[base+offsetBetaAnimals]} {
			put(uint16(word))
			put(uint16(word >> 16))
		}
		snipes |= uint16(s.board[base+offsetSnipes]) << (2 * uint(l))
	}
	put(snipes)
	put(uint16(s.turn)<<1 | uint16(s.pending&pendingMarker))
	return string(key[:])
}
