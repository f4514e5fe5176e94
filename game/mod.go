package game

import "fmt"

type Player uint8

const (
	Alpha Player = iota
	Beta
)

func (p Player) Opponent() Player {
	return p ^ 1
}

func (p Player) String() string {
	switch p {
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	}
	return fmt.Sprintf("Player(%d)", uint8(p))
}

// Location is one of the two reserves or one of the six rows, ordered from
// alpha's side to beta's side.
type Location uint8

const (
	AlphaReserve Location = iota
	Row1
	Row2
	Row3
	Row4
	Row5
	Row6
	BetaReserve
)

const NumLocations = 8

var (
	AllLocations = [NumLocations]Location{AlphaReserve, Row1, Row2, Row3, Row4, Row5, Row6, BetaReserve}
	Rows         = [6]Location{Row1, Row2, Row3, Row4, Row5, Row6}
)

func (l Location) IsRow() bool {
	return l >= Row1 && l <= Row6
}

func (l Location) IsReserve() bool {
	return l == AlphaReserve || l == BetaReserve
}

func (l Location) String() string {
	switch {
	case l == AlphaReserve:
		return "alpha-reserve"
	case l == BetaReserve:
		return "beta-reserve"
	case l.IsRow():
		return fmt.Sprintf("row%d", uint8(l))
	}
	return fmt.Sprintf("Location(%d)", uint8(l))
}

// ReserveOf returns the reserve that receives the pieces captured by p.
func ReserveOf(p Player) Location {
	if p == Alpha {
		return AlphaReserve
	}
	return BetaReserve
}

// forward returns the location one step towards the opponent. The result may
// be a reserve, or out of range, which callers reject with IsRow.
func forward(l Location, p Player) Location {
	if p == Alpha {
		return l + 1
	}
	return l - 1
}

func backward(l Location, p Player) Location {
	return forward(l, p.Opponent())
}

// isDeepRow reports whether row is one of the two rows nearest the
// opponent's reserve.
func isDeepRow(row Location, p Player) bool {
	if p == Alpha {
		return row == Row5 || row == Row6
	}
	return row == Row1 || row == Row2
}
