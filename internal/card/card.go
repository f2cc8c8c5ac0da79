package card

import (
	"errors"
	"strconv"
)

var ErrBadNumber = errors.New("card number must be between 1 and 12")

// MaxNumber is the highest numbered card and the value that completes a
// building pile.
const MaxNumber = 12

type Color uint8

const (
	Red Color = iota
	Green
	Blue
	Yellow
	// WildColor is the color carried by Skip-Bo wildcards.
	WildColor
)

// Colors lists the four numbered-card colors, in deck-building order.
var Colors = []Color{Red, Green, Blue, Yellow}

func (c Color) String() string {
	switch c {
	case Red:
		return "R"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Yellow:
		return "Y"
	default:
		return "SB"
	}
}

// Card is an immutable value: a colored number 1..12, or a wildcard.
// Wildcards carry Number 0; use IsWild rather than inspecting Number.
type Card struct {
	Color  Color
	Number int
}

// Numbered builds a colored card with a number in 1..12.
func Numbered(color Color, number int) (Card, error) {
	if number < 1 || number > MaxNumber {
		return Card{}, ErrBadNumber
	}
	return Card{Color: color, Number: number}, nil
}

// Wild builds a Skip-Bo wildcard.
func Wild() Card {
	return Card{Color: WildColor}
}

func (c Card) IsWild() bool {
	return c.Number == 0
}

func (c Card) String() string {
	if c.IsWild() {
		return "SB"
	}
	return strconv.Itoa(c.Number)
}
