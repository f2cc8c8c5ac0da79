package card

import (
	"errors"
	"math/rand"
)

var ErrEmptyDeck = errors.New("cannot draw from empty deck")

const (
	copiesPerNumber = 3
	wildCount       = 18
	// StandardDeckSize is 4 colors x 12 numbers x 3 copies + 18 wildcards.
	// Often quoted as 126, but that arithmetic never matched the deal.
	StandardDeckSize = 162
)

// Deck is an ordered pile of cards drawn from the end. Size only shrinks via
// Draw; AddToBottom exists for returning completed building piles to play.
type Deck struct {
	cards []Card
}

// NewDeck builds an empty deck.
func NewDeck() *Deck {
	return &Deck{}
}

// NewStandardDeck builds the full 162-card Skip-Bo deck, unshuffled.
func NewStandardDeck() *Deck {
	d := &Deck{cards: make([]Card, 0, StandardDeckSize)}
	for _, color := range Colors {
		for number := 1; number <= MaxNumber; number++ {
			for i := 0; i < copiesPerNumber; i++ {
				d.cards = append(d.cards, Card{Color: color, Number: number})
			}
		}
	}
	for i := 0; i < wildCount; i++ {
		d.cards = append(d.cards, Wild())
	}
	return d
}

// NewDeckFrom builds a deck holding exactly the given cards; the last card is
// the next to be drawn. Used by tests to stack known deals.
func NewDeckFrom(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, nil
}

// DrawN draws count cards, failing without drawing any if too few remain.
func (d *Deck) DrawN(count int) ([]Card, error) {
	if count > len(d.cards) {
		return nil, ErrEmptyDeck
	}
	out := make([]Card, 0, count)
	for i := 0; i < count; i++ {
		c, _ := d.Draw()
		out = append(out, c)
	}
	return out, nil
}

func (d *Deck) AddToBottom(cards []Card) {
	d.cards = append(append(make([]Card, 0, len(cards)+len(d.cards)), cards...), d.cards...)
}

func (d *Deck) Size() int {
	return len(d.cards)
}

func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}
