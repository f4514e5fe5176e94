package game

import "fmt"

type AtomicType uint8

const (
	SnipeStep AtomicType = iota + 1
	Drop
	AnimalStep
)

func (t AtomicType) String() string {
	switch t {
	case SnipeStep:
		return "snipe-step"
	case Drop:
		return "drop"
	case AnimalStep:
		return "animal-step"
	}
	return fmt.Sprintf("AtomicType(%d)", uint8(t))
}

// Atomic is the smallest unit of play. Kind is ignored for snipe-steps.
type Atomic struct {
	Type        AtomicType `json:"type"`
	Kind        Kind       `json:"kind"`
	Destination Location   `json:"destination"`
}

func NewSnipeStep(destination Location) Atomic {
	return Atomic{Type: SnipeStep, Destination: destination}
}

func NewDrop(k Kind, destination Location) Atomic {
	return Atomic{Type: Drop, Kind: k, Destination: destination}
}

func NewAnimalStep(k Kind, destination Location) Atomic {
	return Atomic{Type: AnimalStep, Kind: k, Destination: destination}
}

func (a Atomic) String() string {
	switch a.Type {
	case SnipeStep:
		return fmt.Sprintf("snipe->%s", a.Destination)
	case Drop:
		return fmt.Sprintf("drop %s->%s", a.Kind, a.Destination)
	case AnimalStep:
		return fmt.Sprintf("%s->%s", a.Kind, a.Destination)
	}
	return fmt.Sprintf("Atomic(%d)", uint8(a.Type))
}

type PlyType uint8

// Ply tags occupy the lowest three bits of an encoded ply.
const (
	TagSnipeStep      PlyType = 0b001
	TagDrop           PlyType = 0b010
	TagTwoAnimalSteps PlyType = 0b011
)

const (
	tagBits   = 0b111
	kindBits  = 0b1_1111
	placeBits = 0b111

	pendingMarker = 0b1
)

// Ply is one completed turn packed into an integer.
type Ply uint32

func (p Ply) Type() PlyType {
	return PlyType(p & tagBits)
}

// Atomics decomposes the ply into its one or two atomics.
func (p Ply) Atomics() []Atomic {
	switch p.Type() {
	case TagSnipeStep:
		return []Atomic{NewSnipeStep(Location(p>>3&placeBits))}
	case TagDrop:
		return []Atomic{NewDrop(Kind(p>>3&kindBits), Location(p>>8&placeBits))}
	case TagTwoAnimalSteps:
		return []Atomic{
			NewAnimalStep(Kind(p>>3&kindBits), Location(p>>8&placeBits)),
			NewAnimalStep(Kind(p>>11&kindBits), Location(p>>16&placeBits)),
		}
	}
	panic(fmt.Sprintf("invalid ply tag %03b", p&tagBits))
}

func (p Ply) String() string {
	atomics := p.Atomics()
	if len(atomics) == 2 {
		return fmt.Sprintf("%s, %s", atomics[0], atomics[1])
	}
	return atomics[0].String()
}

func encodeSnipeStep(destination Location) Ply {
	return Ply(TagSnipeStep) | Ply(destination)<<3
}

func encodeDrop(k Kind, destination Location) Ply {
	return Ply(TagDrop) | Ply(k)<<3 | Ply(destination)<<8
}

func encodeTwoAnimalSteps(first, second Atomic) Ply {
	return Ply(TagTwoAnimalSteps) |
		Ply(first.Kind)<<3 | Ply(first.Destination)<<8 |
		Ply(second.Kind)<<11 | Ply(second.Destination)<<16
}

// encodePending packs a half-turn with the animal-step layout and a marker
// bit, so that zero means no half-turn.
func encodePending(step Atomic) uint32 {
	return pendingMarker | uint32(step.Kind)<<3 | uint32(step.Destination)<<8
}

func decodePending(pending uint32) (Atomic, bool) {
	if pending&pendingMarker == 0 {
		return Atomic{}, false
	}
	return NewAnimalStep(Kind(pending>>3&kindBits), Location(pending>>8&placeBits)), true
}

func validPly(p Ply) bool {
	switch p.Type() {
	case TagSnipeStep, TagDrop, TagTwoAnimalSteps:
		return true
	}
	return false
}
