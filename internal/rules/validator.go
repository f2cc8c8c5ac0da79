// Package rules answers legality questions about card moves. Everything here
// is a pure query over the piles passed in; nothing is mutated and no state
// is kept. Index arguments out of range answer false, not an error.
package rules

import "skipbo/internal/card"

type Source int

const (
	SourceStock Source = iota
	SourceHand
	SourceDiscard
)

func (s Source) String() string {
	switch s {
	case SourceStock:
		return "stock"
	case SourceHand:
		return "hand"
	default:
		return "discard"
	}
}

// Move is one candidate play: a source card onto a building pile.
// SourceIndex is -1 for stock moves.
type Move struct {
	Source        Source
	SourceIndex   int
	BuildingIndex int
}

func CanPlayFromStock(stock *card.StockPile, pile *card.BuildingPile) bool {
	top, ok := stock.Peek()
	if !ok {
		return false
	}
	return pile.CanPlay(top)
}

func CanPlayFromHand(hand *card.Hand, handIndex int, pile *card.BuildingPile) bool {
	c, ok := hand.Get(handIndex)
	if !ok {
		return false
	}
	return pile.CanPlay(c)
}

func CanPlayFromDiscard(discards []*card.DiscardPile, discardIndex int, pile *card.BuildingPile) bool {
	if discardIndex < 0 || discardIndex >= len(discards) {
		return false
	}
	top, ok := discards[discardIndex].Top()
	if !ok {
		return false
	}
	return pile.CanPlay(top)
}

// FindPlayableFromStock returns the building pile indices that accept the
// stock top card.
func FindPlayableFromStock(stock *card.StockPile, piles []*card.BuildingPile) []int {
	top, ok := stock.Peek()
	if !ok {
		return nil
	}
	return findAccepting(top, piles)
}

// FindPlayableFromHand returns the building pile indices that accept the hand
// card at handIndex.
func FindPlayableFromHand(hand *card.Hand, handIndex int, piles []*card.BuildingPile) []int {
	c, ok := hand.Get(handIndex)
	if !ok {
		return nil
	}
	return findAccepting(c, piles)
}

// FindPlayableFromDiscard returns the building pile indices that accept the
// top of the given discard pile.
func FindPlayableFromDiscard(discards []*card.DiscardPile, discardIndex int, piles []*card.BuildingPile) []int {
	if discardIndex < 0 || discardIndex >= len(discards) {
		return nil
	}
	top, ok := discards[discardIndex].Top()
	if !ok {
		return nil
	}
	return findAccepting(top, piles)
}

// HasAnyValidMove short-circuits true on the first legal play across stock,
// then each hand card, then each discard top.
func HasAnyValidMove(stock *card.StockPile, hand *card.Hand, discards []*card.DiscardPile, piles []*card.BuildingPile) bool {
	if len(FindPlayableFromStock(stock, piles)) > 0 {
		return true
	}
	for i := 0; i < hand.Size(); i++ {
		if len(FindPlayableFromHand(hand, i, piles)) > 0 {
			return true
		}
	}
	for i := range discards {
		if len(FindPlayableFromDiscard(discards, i, piles)) > 0 {
			return true
		}
	}
	return false
}

// AllPossibleMoves enumerates every legal play, unordered. Callers apply
// their own selection policy.
func AllPossibleMoves(stock *card.StockPile, hand *card.Hand, discards []*card.DiscardPile, piles []*card.BuildingPile) []Move {
	var moves []Move
	for _, b := range FindPlayableFromStock(stock, piles) {
		moves = append(moves, Move{Source: SourceStock, SourceIndex: -1, BuildingIndex: b})
	}
	for h := 0; h < hand.Size(); h++ {
		for _, b := range FindPlayableFromHand(hand, h, piles) {
			moves = append(moves, Move{Source: SourceHand, SourceIndex: h, BuildingIndex: b})
		}
	}
	for d := range discards {
		for _, b := range FindPlayableFromDiscard(discards, d, piles) {
			moves = append(moves, Move{Source: SourceDiscard, SourceIndex: d, BuildingIndex: b})
		}
	}
	return moves
}

func findAccepting(c card.Card, piles []*card.BuildingPile) []int {
	var out []int
	for i, p := range piles {
		if p.CanPlay(c) {
			out = append(out, i)
		}
	}
	return out
}
