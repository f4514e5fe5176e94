package searcher

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"snipehunt/game"
)

// Checkpoint is a self-contained copy of a search: the serialized root
// position and the node arena.
type Checkpoint struct {
	State string
	Nodes []node
}

func (m *MCTS) Checkpoint() (*Checkpoint, error) {
	if m.tree == nil {
		return nil, fmt.Errorf("search has no root")
	}
	state, err := m.state.Serialize()
	if err != nil {
		return nil, fmt.Errorf("failed to checkpoint root: %w", err)
	}
	nodes := make([]node, len(m.tree.nodes))
	copy(nodes, m.tree.nodes)
	return &Checkpoint{State: state, Nodes: nodes}, nil
}

// Restore replaces the search with the checkpoint, keeping every statistic.
func (m *MCTS) Restore(c *Checkpoint) error {
	state, ok := game.Deserialize(c.State)
	if !ok {
		return fmt.Errorf("checkpoint has no valid root state")
	}
	if err := validateNodes(c.Nodes, state); err != nil {
		return fmt.Errorf("invalid checkpoint: %w", err)
	}
	nodes := make([]node, len(c.Nodes), max(len(c.Nodes), min(m.capacity, 1<<16)))
	copy(nodes, c.Nodes)
	m.state = state
	m.tree = &tree{nodes: nodes, capacity: max(m.capacity, len(nodes))}
	return nil
}

// validateNodes walks the arena from the root position and requires every
// expanded node to hold exactly the legal atomics of its position, in order.
func validateNodes(nodes []node, root *game.State) error {
	if len(nodes) == 0 {
		return fmt.Errorf("no root node")
	}
	if nodes[0].Parent != noNode || nodes[0].Mover != root.Turn() {
		return fmt.Errorf("root node does not match the root state")
	}

	type entry struct {
		index  int32
		parent *game.State
	}
	visited := 1
	stack := []entry{{index: 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := nodes[e.index]

		state := root
		if e.parent != nil {
			state = e.parent.ForcePerform(n.Atomic)
		}
		if n.Rollouts < 0 {
			return fmt.Errorf("node %d has negative rollouts", e.index)
		}
		if n.Terminal {
			if winner, over := state.Winner(); !over || winner != n.Winner {
				return fmt.Errorf("node %d is marked terminal in a live position", e.index)
			}
		}
		if n.Children == 0 {
			continue
		}

		atomics := state.LegalAtomics()
		if int(n.Children) != len(atomics) {
			return fmt.Errorf("node %d has %d children for %d legal atomics", e.index, n.Children, len(atomics))
		}
		if n.FirstChild <= e.index || int(n.FirstChild)+len(atomics) > len(nodes) {
			return fmt.Errorf("node %d has children out of range", e.index)
		}
		for i, a := range atomics {
			c := n.FirstChild + int32(i)
			child := nodes[c]
			if child.Atomic != a || child.Parent != e.index || child.Mover != state.TurnAfter(a) {
				return fmt.Errorf("node %d does not follow from node %d", c, e.index)
			}
			stack = append(stack, entry{index: c, parent: state})
		}
		visited += len(atomics)
	}
	if visited != len(nodes) {
		return fmt.Errorf("%d nodes are unreachable from the root", len(nodes)-visited)
	}
	return nil
}

// Encode serializes the checkpoint with gob.
func (c *Checkpoint) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeCheckpoint(data []byte) (*Checkpoint, error) {
	var c Checkpoint
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	return &c, nil
}
