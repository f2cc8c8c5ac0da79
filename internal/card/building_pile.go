package card

import "errors"

var ErrIllegalPlay = errors.New("cannot play card on this building pile")

// BuildingPile is one of the four shared ascending sequences. Cards go on in
// strict 1..12 order (wildcards stand in for any value); playing the 12th
// card empties the pile in the same operation. The completion is observable
// exactly once through JustCompleted, which clears on the next Play.
type BuildingPile struct {
	cards         []Card
	current       int // 0 means empty, next required is 1
	justCompleted bool
}

func NewBuildingPile() *BuildingPile {
	return &BuildingPile{}
}

// NextRequired is the number the pile accepts next, 1..12.
func (p *BuildingPile) NextRequired() int {
	return p.current + 1
}

// TopCard returns the most recently played card. ok is false on an empty
// pile.
func (p *BuildingPile) TopCard() (Card, bool) {
	if len(p.cards) == 0 {
		return Card{}, false
	}
	return p.cards[len(p.cards)-1], true
}

func (p *BuildingPile) CanPlay(c Card) bool {
	return c.IsWild() || c.Number == p.NextRequired()
}

func (p *BuildingPile) Play(c Card) error {
	if !p.CanPlay(c) {
		return ErrIllegalPlay
	}

	p.justCompleted = false
	p.cards = append(p.cards, c)
	p.current++

	if p.current == MaxNumber {
		p.cards = p.cards[:0]
		p.current = 0
		p.justCompleted = true
	}
	return nil
}

// JustCompleted reports whether the most recent Play reached 12 and reset
// the pile.
func (p *BuildingPile) JustCompleted() bool {
	return p.justCompleted
}

func (p *BuildingPile) IsEmpty() bool {
	return len(p.cards) == 0
}

func (p *BuildingPile) Size() int {
	return len(p.cards)
}
