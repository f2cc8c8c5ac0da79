package card

import "errors"

var (
	ErrEmptyPile = errors.New("pile is empty")
	ErrHandFull  = errors.New("hand is full")
	ErrBadIndex  = errors.New("index out of range")
)

// DiscardPile is one of a player's four discard stacks. Cards are pushed from
// the hand and popped only toward building piles; no other movement exists.
type DiscardPile struct {
	cards []Card
}

func NewDiscardPile() *DiscardPile {
	return &DiscardPile{}
}

func (p *DiscardPile) Push(c Card) {
	p.cards = append(p.cards, c)
}

func (p *DiscardPile) Top() (Card, bool) {
	if len(p.cards) == 0 {
		return Card{}, false
	}
	return p.cards[len(p.cards)-1], true
}

func (p *DiscardPile) Pop() (Card, error) {
	if len(p.cards) == 0 {
		return Card{}, ErrEmptyPile
	}
	c := p.cards[len(p.cards)-1]
	p.cards = p.cards[:len(p.cards)-1]
	return c, nil
}

func (p *DiscardPile) IsEmpty() bool {
	return len(p.cards) == 0
}

func (p *DiscardPile) Size() int {
	return len(p.cards)
}

// StockPile is a player's private face-down pile. Only the top card is ever
// visible or playable; the pile is built once at deal time and never
// replenished. Emptying it wins the round.
type StockPile struct {
	cards []Card // top is the last element
}

// NewStockPile builds a stock pile from dealt cards; the last card dealt
// becomes the top.
func NewStockPile(cards []Card) *StockPile {
	s := &StockPile{cards: make([]Card, len(cards))}
	copy(s.cards, cards)
	return s
}

func (p *StockPile) Peek() (Card, bool) {
	if len(p.cards) == 0 {
		return Card{}, false
	}
	return p.cards[len(p.cards)-1], true
}

func (p *StockPile) Draw() (Card, error) {
	if len(p.cards) == 0 {
		return Card{}, ErrEmptyPile
	}
	c := p.cards[len(p.cards)-1]
	p.cards = p.cards[:len(p.cards)-1]
	return c, nil
}

func (p *StockPile) IsEmpty() bool {
	return len(p.cards) == 0
}

func (p *StockPile) Size() int {
	return len(p.cards)
}

// HandCapacity is the number of cards a hand refills to.
const HandCapacity = 5

// Hand holds up to five cards, indexed by position.
type Hand struct {
	cards []Card
}

func NewHand() *Hand {
	return &Hand{cards: make([]Card, 0, HandCapacity)}
}

func (h *Hand) Add(c Card) error {
	if len(h.cards) >= HandCapacity {
		return ErrHandFull
	}
	h.cards = append(h.cards, c)
	return nil
}

// Get returns the card at index. ok is false when the index is out of range.
func (h *Hand) Get(index int) (Card, bool) {
	if index < 0 || index >= len(h.cards) {
		return Card{}, false
	}
	return h.cards[index], true
}

// RemoveAt removes and returns the card at index.
func (h *Hand) RemoveAt(index int) (Card, error) {
	if index < 0 || index >= len(h.cards) {
		return Card{}, ErrBadIndex
	}
	c := h.cards[index]
	h.cards = append(h.cards[:index], h.cards[index+1:]...)
	return c, nil
}

// Cards returns a copy of the hand contents in position order.
func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

func (h *Hand) Size() int {
	return len(h.cards)
}

func (h *Hand) IsEmpty() bool {
	return len(h.cards) == 0
}

func (h *Hand) IsFull() bool {
	return len(h.cards) >= HandCapacity
}
