package engine

import "skipbo/internal/card"

// DiscardPileCount is the number of discard piles each player owns.
const DiscardPileCount = 4

// Kind tags how a player's turns are driven: by external commands or by the
// automated turn policy. The state machine treats both uniformly.
type Kind int

const (
	Interactive Kind = iota
	Automated
)

// Player is the per-seat data record: a name, a hand, a stock pile and four
// discard piles. It carries no behavior split between humans and bots; the
// Kind tag tells the session which turn driver to use.
type Player struct {
	Name     string
	Kind     Kind
	Hand     *card.Hand
	Stock    *card.StockPile
	Discards []*card.DiscardPile
}

func NewPlayer(name string, kind Kind) *Player {
	discards := make([]*card.DiscardPile, DiscardPileCount)
	for i := range discards {
		discards[i] = card.NewDiscardPile()
	}
	return &Player{
		Name:     name,
		Kind:     kind,
		Hand:     card.NewHand(),
		Stock:    card.NewStockPile(nil),
		Discards: discards,
	}
}

// PlayFromStock moves the stock top card onto the building pile.
func (p *Player) PlayFromStock(pile *card.BuildingPile) error {
	top, ok := p.Stock.Peek()
	if !ok {
		return ErrIllegalMove
	}
	if !pile.CanPlay(top) {
		return ErrIllegalMove
	}
	if _, err := p.Stock.Draw(); err != nil {
		return err
	}
	return pile.Play(top)
}

// PlayFromHand moves the hand card at handIndex onto the building pile.
func (p *Player) PlayFromHand(handIndex int, pile *card.BuildingPile) error {
	c, ok := p.Hand.Get(handIndex)
	if !ok {
		return ErrIllegalMove
	}
	if !pile.CanPlay(c) {
		return ErrIllegalMove
	}
	if _, err := p.Hand.RemoveAt(handIndex); err != nil {
		return err
	}
	return pile.Play(c)
}

// PlayFromDiscard moves the top of the given discard pile onto the building
// pile.
func (p *Player) PlayFromDiscard(discardIndex int, pile *card.BuildingPile) error {
	if discardIndex < 0 || discardIndex >= len(p.Discards) {
		return ErrIllegalMove
	}
	top, ok := p.Discards[discardIndex].Top()
	if !ok {
		return ErrIllegalMove
	}
	if !pile.CanPlay(top) {
		return ErrIllegalMove
	}
	if _, err := p.Discards[discardIndex].Pop(); err != nil {
		return err
	}
	return pile.Play(top)
}

// DiscardFromHand moves a hand card onto one of the player's own discard
// piles, the move that ends a turn.
func (p *Player) DiscardFromHand(handIndex, discardIndex int) error {
	if discardIndex < 0 || discardIndex >= len(p.Discards) {
		return ErrIllegalMove
	}
	c, err := p.Hand.RemoveAt(handIndex)
	if err != nil {
		return ErrIllegalMove
	}
	p.Discards[discardIndex].Push(c)
	return nil
}

// RefillHand draws from the deck until the hand is full or the deck runs
// out. An exhausted deck is not an error; the hand simply stays short.
func (p *Player) RefillHand(deck *card.Deck) {
	for !p.Hand.IsFull() && !deck.IsEmpty() {
		c, err := deck.Draw()
		if err != nil {
			return
		}
		_ = p.Hand.Add(c)
	}
}

// HasWon reports whether the player emptied their stock pile.
func (p *Player) HasWon() bool {
	return p.Stock.IsEmpty()
}
