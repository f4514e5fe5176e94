package searcher

import "snipehunt/game"

const noNode int32 = -1

// node is one entry of the search arena. The children of a node are stored
// contiguously from FirstChild. Fields are exported so checkpoints can be
// encoded with gob.
type node struct {
	Atomic     game.Atomic // Edge from the parent
	Parent     int32
	FirstChild int32
	Children   int32
	Mover      game.Player // Side to move at this node
	Value      float64     // Rollouts won by Mover, draws count half
	Rollouts   int
	Terminal   bool
	Winner     game.Player
}

func (n *node) isLeaf() bool {
	return n.Children == 0
}

type tree struct {
	nodes    []node
	capacity int
}

func newTree(mover game.Player, capacity int) *tree {
	nodes := make([]node, 1, min(capacity, 1<<16))
	nodes[0] = node{Parent: noNode, FirstChild: noNode, Mover: mover}
	return &tree{nodes: nodes, capacity: capacity}
}

// expand attaches one child per atomic to parent. It returns false, leaving
// the tree untouched, when the arena is full.
func (t *tree) expand(parent int32, state *game.State, atomics []game.Atomic) bool {
	if len(atomics) == 0 || len(t.nodes)+len(atomics) > t.capacity {
		return false
	}
	first := int32(len(t.nodes))
	for _, a := range atomics {
		t.nodes = append(t.nodes, node{
			Atomic:     a,
			Parent:     parent,
			FirstChild: noNode,
			Mover:      state.TurnAfter(a),
		})
	}
	t.nodes[parent].FirstChild = first
	t.nodes[parent].Children = int32(len(atomics))
	return true
}

// backup credits a rollout outcome to leaf and all of its ancestors. A node
// gains value when the winner is the side to move at that node.
func (t *tree) backup(leaf int32, winner game.Player, decided bool) {
	for i := leaf; i != noNode; i = t.nodes[i].Parent {
		n := &t.nodes[i]
		n.Rollouts++
		switch {
		case !decided:
			n.Value += DRAW
		case n.Mover == winner:
			n.Value += WIN
		default:
			n.Value += LOSS
		}
	}
}

// selectChild picks the child with the highest UCB1 score. Child statistics
// are turned to the parent's side to move before scoring, since a child may
// belong to either side.
func (t *tree) selectChild(parent int32) int32 {
	p := &t.nodes[parent]
	if p.Rollouts == 0 {
		return p.FirstChild
	}
	scorer := newUCT(CSquared, float64(p.Rollouts))

	best := noNode
	bestScore := 0.0
	for c := p.FirstChild; c < p.FirstChild+p.Children; c++ {
		child := &t.nodes[c]
		if child.Rollouts == 0 {
			return c
		}
		rewards := child.Value
		if child.Mover != p.Mover {
			rewards = float64(child.Rollouts) - child.Value
		}
		score := scorer.evaluate(rewards, float64(child.Rollouts))
		if best == noNode || score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}

// mostVisited returns the child of parent with the most rollouts, the first
// one on ties.
func (t *tree) mostVisited(parent int32) (int32, bool) {
	p := &t.nodes[parent]
	if p.isLeaf() {
		return noNode, false
	}
	best := p.FirstChild
	for c := p.FirstChild + 1; c < p.FirstChild+p.Children; c++ {
		if t.nodes[c].Rollouts > t.nodes[best].Rollouts {
			best = c
		}
	}
	return best, true
}

func (t *tree) child(parent int32, a game.Atomic) (int32, bool) {
	p := &t.nodes[parent]
	for c := p.FirstChild; c < p.FirstChild+p.Children; c++ {
		if t.nodes[c].Atomic == a {
			return c, true
		}
	}
	return noNode, false
}

// subtree copies the nodes below root into a fresh arena, breadth first, so
// that sibling ranges stay contiguous.
func (t *tree) subtree(root int32) *tree {
	nodes := make([]node, 1, len(t.nodes))
	nodes[0] = t.nodes[root]
	nodes[0].Parent = noNode
	nodes[0].Atomic = game.Atomic{}

	queue := []int32{root}
	for next := int32(0); len(queue) > 0; next++ {
		old := queue[0]
		queue = queue[1:]
		o := t.nodes[old]
		if o.isLeaf() {
			nodes[next].FirstChild = noNode
			continue
		}
		nodes[next].FirstChild = int32(len(nodes))
		for c := o.FirstChild; c < o.FirstChild+o.Children; c++ {
			child := t.nodes[c]
			child.Parent = next
			nodes = append(nodes, child)
			queue = append(queue, c)
		}
	}
	return &tree{nodes: nodes, capacity: t.capacity}
}
