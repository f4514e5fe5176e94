package game

import "golang.org/x/exp/rand"

// Initial deal, per side, from its reserve towards the centre.
const (
	reserveCount = 1
	backCount    = 2
	middleCount  = 12
	frontCount   = 1
)

// NewRandom deals a fresh game. The 24 minor cards and 8 major cards are
// shuffled separately so that each side receives 12 minors and 4 majors.
func NewRandom(rng *rand.Rand) *State {
	minors := make([]Kind, 0, 2*len(Minors))
	majors := make([]Kind, 0, 2*len(Majors))
	for instance := uint8(0); instance < 2; instance++ {
		for _, s := range Minors {
			minors = append(minors, NewKind(s, instance))
		}
		for _, s := range Majors {
			majors = append(majors, NewKind(s, instance))
		}
	}
	shuffle(rng, minors)
	shuffle(rng, majors)

	half := len(minors) / 2
	alpha := append(append([]Kind{}, minors[:half]...), majors[:len(majors)/2]...)
	beta := append(append([]Kind{}, minors[half:]...), majors[len(majors)/2:]...)
	shuffle(rng, alpha)
	shuffle(rng, beta)

	var board Board
	deal(&board, alpha, Alpha, []Location{AlphaReserve, Row1, Row2, Row3})
	deal(&board, beta, Beta, []Location{BetaReserve, Row6, Row5, Row4})
	board[Row1] = append(board[Row1], Snipe(Alpha))
	board[Row6] = append(board[Row6], Snipe(Beta))

	return New(Encode(board))
}

func deal(board *Board, deck []Kind, owner Player, locations []Location) {
	counts := []int{reserveCount, backCount, middleCount, frontCount}
	for i, location := range locations {
		for j := 0; j < counts[i]; j++ {
			board[location] = append(board[location], Animal(deck[0], owner))
			deck = deck[1:]
		}
	}
}

func shuffle(rng *rand.Rand, kinds []Kind) {
	rng.Shuffle(len(kinds), func(i, j int) {
		kinds[i], kinds[j] = kinds[j], kinds[i]
	})
}
