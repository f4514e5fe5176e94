package game

import "fmt"

// Kind identifies one animal card. The low four bits are the species and bit
// four is the copy, so each kind maps to a distinct bit of an animal word.
type Kind uint8

const NumKinds = 32

func NewKind(s Species, instance uint8) Kind {
	return Kind(s) | Kind(instance&1)<<4
}

func (k Kind) Species() Species {
	return Species(k & 0b1111)
}

func (k Kind) Copy() uint8 {
	return uint8(k >> 4)
}

func (k Kind) bit() uint32 {
	return 1 << k
}

func (k Kind) String() string {
	return fmt.Sprintf("%s%d", k.Species(), k.Copy()+1)
}

type Species uint8

const (
	Mouse Species = iota
	Ox
	Tiger
	Rabbit
	Dragon
	Snake
	Horse
	Ram
	Monkey
	Rooster
	Dog
	Boar
	Fish
	Elephant
	Squid
	Frog
)

const NumSpecies = 16

var speciesNames = [NumSpecies]string{
	"Mouse", "Ox", "Tiger", "Rabbit", "Dragon", "Snake", "Horse", "Ram",
	"Monkey", "Rooster", "Dog", "Boar", "Fish", "Elephant", "Squid", "Frog",
}

func (s Species) String() string {
	if s < NumSpecies {
		return speciesNames[s]
	}
	return fmt.Sprintf("Species(%d)", uint8(s))
}

// Minor and major species, dealt 12 and 4 per side respectively.
var (
	Minors = []Species{Mouse, Ox, Rabbit, Snake, Horse, Ram, Monkey, Rooster, Dog, Boar, Squid, Frog}
	Majors = []Species{Tiger, Dragon, Fish, Elephant}
)

type Element uint8

const (
	Fire Element = iota
	Water
	Earth
	Air
)

func (e Element) String() string {
	switch e {
	case Fire:
		return "fire"
	case Water:
		return "water"
	case Earth:
		return "earth"
	case Air:
		return "air"
	}
	return fmt.Sprintf("Element(%d)", uint8(e))
}

// Each element owns a 3-bit group of an element-count pattern: a single
// affinity sets bit 0, the double affinity of a split species sets bit 1
// and a triple species sets bit 2. A full group needs one of each.
const (
	tripletMask  = 0b111
	singleCounts = 0b001
	doubleCounts = 0b010
	tripleCounts = 0b100
)

func tripletShift(e Element) uint8 {
	return uint8(e) * 3
}

// Properties describes the elemental affinities of a species.
type Properties struct {
	Double     Element
	Single     Element
	CanRetreat bool

	counts uint16
	shifts []uint8
}

// IsTriple reports whether both affinities are the same element.
func (p Properties) IsTriple() bool {
	return p.Double == p.Single
}

func (p Properties) ElementCounts() uint16 {
	return p.counts
}

func newProperties(double, single Element, canRetreat bool) Properties {
	counts := uint16(tripleCounts) << tripletShift(double)
	shifts := []uint8{tripletShift(double)}
	if double != single {
		counts = uint16(doubleCounts)<<tripletShift(double) | uint16(singleCounts)<<tripletShift(single)
		shifts = append(shifts, tripletShift(single))
	}
	return Properties{
		Double:     double,
		Single:     single,
		CanRetreat: canRetreat,
		counts:     counts,
		shifts:     shifts,
	}
}

var properties = [NumSpecies]Properties{
	Mouse:    newProperties(Fire, Earth, true),
	Ox:       newProperties(Earth, Water, false),
	Tiger:    newProperties(Fire, Fire, false),
	Rabbit:   newProperties(Air, Water, false),
	Dragon:   newProperties(Air, Air, false),
	Snake:    newProperties(Water, Earth, true),
	Horse:    newProperties(Fire, Air, false),
	Ram:      newProperties(Earth, Air, true),
	Monkey:   newProperties(Air, Earth, false),
	Rooster:  newProperties(Air, Fire, false),
	Dog:      newProperties(Fire, Water, false),
	Boar:     newProperties(Earth, Fire, true),
	Fish:     newProperties(Water, Water, false),
	Elephant: newProperties(Earth, Earth, false),
	Squid:    newProperties(Water, Fire, true),
	Frog:     newProperties(Water, Air, false),
}

func PropertiesOf(k Kind) Properties {
	return properties[k.Species()]
}

func canRetreat(k Kind) bool {
	return properties[k.Species()].CanRetreat
}

// completesTriplet reports whether mover joining a row whose occupants have
// the combined pattern rowCounts fills a group of one of mover's elements.
func completesTriplet(mover Kind, rowCounts uint16) bool {
	p := properties[mover.Species()]
	combined := rowCounts | p.counts
	for _, shift := range p.shifts {
		if (combined>>shift)&tripletMask == tripletMask {
			return true
		}
	}
	return false
}
