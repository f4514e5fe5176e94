package game

import (
	"fmt"
	"math/bits"
	"sort"
)

// Piece is an animal or, when IsSnipe is set, the owner's snipe.
type Piece struct {
	Kind    Kind
	Owner   Player
	IsSnipe bool
}

func Animal(k Kind, owner Player) Piece {
	return Piece{Kind: k, Owner: owner}
}

func Snipe(owner Player) Piece {
	return Piece{Owner: owner, IsSnipe: true}
}

func (p Piece) String() string {
	if p.IsSnipe {
		return fmt.Sprintf("%s-snipe", p.Owner)
	}
	return fmt.Sprintf("%s-%s", p.Owner, p.Kind)
}

// Board is the structured form of a position: the pieces at each location.
type Board [NumLocations][]Piece

const NumPieces = NumKinds + 2

// Validate checks the conservation law: every animal kind and both snipes
// appear exactly once across all locations.
func (b Board) Validate() error {
	var kinds uint32
	var snipes [2]int
	total := 0
	for _, location := range AllLocations {
		for _, piece := range b[location] {
			total++
			if piece.IsSnipe {
				snipes[piece.Owner&1]++
				continue
			}
			if piece.Kind >= NumKinds {
				return fmt.Errorf("invalid animal kind %d at %s", piece.Kind, location)
			}
			if kinds&piece.Kind.bit() != 0 {
				return fmt.Errorf("animal %s appears more than once", piece.Kind)
			}
			kinds |= piece.Kind.bit()
		}
	}
	if snipes[Alpha] != 1 || snipes[Beta] != 1 {
		return fmt.Errorf("expected one snipe per side, found alpha=%d beta=%d", snipes[Alpha], snipes[Beta])
	}
	if total != NumPieces {
		return fmt.Errorf("expected %d pieces, found %d", NumPieces, total)
	}
	return nil
}

// Packed board words, three per location.
const (
	offsetAlphaAnimals = 0
	offsetBetaAnimals  = 1
	offsetSnipes       = 2

	wordsPerLocation = 3
	PackedSize       = NumLocations * wordsPerLocation
)

const (
	alphaSnipeBit = 0b01
	betaSnipeBit  = 0b10
)

// Packed is the storage form of a board. For each location it keeps a word of
// alpha animal kinds, a word of beta animal kinds and a 2-bit snipe mask.
type Packed [PackedSize]uint32

func animalOffset(p Player) int {
	if p == Alpha {
		return offsetAlphaAnimals
	}
	return offsetBetaAnimals
}

func snipeBit(p Player) uint32 {
	if p == Alpha {
		return alphaSnipeBit
	}
	return betaSnipeBit
}

func (p *Packed) animals(l Location, owner Player) uint32 {
	return p[int(l)*wordsPerLocation+animalOffset(owner)]
}

func (p *Packed) allAnimals(l Location) uint32 {
	base := int(l) * wordsPerLocation
	return p[base+offsetAlphaAnimals] | p[base+offsetBetaAnimals]
}

func (p *Packed) snipes(l Location) uint32 {
	return p[int(l)*wordsPerLocation+offsetSnipes]
}

func (p *Packed) hasSnipe(l Location, owner Player) bool {
	return p.snipes(l)&snipeBit(owner) != 0
}

// occupants counts every piece at l, snipes included.
func (p *Packed) occupants(l Location) int {
	return bits.OnesCount32(p.allAnimals(l)) + bits.OnesCount32(p.snipes(l))
}

func (p *Packed) setAnimal(l Location, owner Player, k Kind) {
	p[int(l)*wordsPerLocation+animalOffset(owner)] |= k.bit()
}

func (p *Packed) clearAnimal(l Location, owner Player, k Kind) {
	p[int(l)*wordsPerLocation+animalOffset(owner)] &^= k.bit()
}

func (p *Packed) setSnipe(l Location, owner Player) {
	p[int(l)*wordsPerLocation+offsetSnipes] |= snipeBit(owner)
}

func (p *Packed) clearSnipe(l Location, owner Player) {
	p[int(l)*wordsPerLocation+offsetSnipes] &^= snipeBit(owner)
}

// elementCounts ORs the element-count patterns of every animal at l.
func (p *Packed) elementCounts(l Location) uint16 {
	var counts uint16
	animals := p.allAnimals(l)
	for animals != 0 {
		k := Kind(bits.TrailingZeros32(animals))
		counts |= properties[k.Species()].counts
		animals &= animals - 1
	}
	return counts
}

// animalLocation finds the location and owner of k.
func (p *Packed) animalLocation(k Kind) (Location, Player, bool) {
	for _, l := range AllLocations {
		if p.animals(l, Alpha)&k.bit() != 0 {
			return l, Alpha, true
		}
		if p.animals(l, Beta)&k.bit() != 0 {
			return l, Beta, true
		}
	}
	return 0, 0, false
}

func (p *Packed) snipeLocation(owner Player) (Location, bool) {
	for _, l := range AllLocations {
		if p.hasSnipe(l, owner) {
			return l, true
		}
	}
	return 0, false
}

// Encode packs a structured board.
func Encode(b Board) Packed {
	var packed Packed
	for _, location := range AllLocations {
		for _, piece := range b[location] {
			if piece.IsSnipe {
				packed.setSnipe(location, piece.Owner)
			} else {
				packed.setAnimal(location, piece.Owner, piece.Kind)
			}
		}
	}
	return packed
}

// Decode unpacks a board. Pieces of each location are ordered by kind with
// alpha before beta, followed by the snipes.
func Decode(p Packed) Board {
	var b Board
	for _, location := range AllLocations {
		pieces := []Piece{}
		for _, owner := range []Player{Alpha, Beta} {
			animals := p.animals(location, owner)
			for animals != 0 {
				k := Kind(bits.TrailingZeros32(animals))
				pieces = append(pieces, Animal(k, owner))
				animals &= animals - 1
			}
		}
		sort.SliceStable(pieces, func(i, j int) bool {
			return pieces[i].Kind < pieces[j].Kind
		})
		for _, owner := range []Player{Alpha, Beta} {
			if p.hasSnipe(location, owner) {
				pieces = append(pieces, Snipe(owner))
			}
		}
		b[location] = pieces
	}
	return b
}
