// Package bot drives a full automated turn for a player: play cards while
// any legal play exists (stock first, since emptying stock wins), then
// discard to end the turn.
package bot

import (
	"errors"
	"math/rand"

	"skipbo/internal/card"
	"skipbo/internal/engine"
	"skipbo/internal/rules"
)

// ErrNoDiscard means the bot reached the discard step with an empty hand.
// The rules guarantee a refilled hand at turn start, so this indicates an
// engine inconsistency rather than a losing position.
var ErrNoDiscard = errors.New("bot cannot discard: hand is empty")

// Turn records what the bot did, so the session can echo the plays on the
// wire.
type Turn struct {
	Moves        []rules.Move
	Won          bool
	Discarded    bool
	HandIndex    int
	DiscardIndex int
}

// PlayTurn runs one complete bot turn against the shared building piles.
// Priorities: stock top onto a random accepting pile, else a random legal
// hand play, else a random legal discard-top play; repeat until stuck or the
// stock empties (immediate win, no discard required). An emptied hand is
// refilled from the draw pile mid-turn, the same rule humans get. Otherwise
// a random hand card goes to a random discard pile to end the turn.
func PlayTurn(p *engine.Player, piles []*card.BuildingPile, deck *card.Deck, rng *rand.Rand) (Turn, error) {
	var turn Turn

	for {
		move, ok := pickMove(p, piles, rng)
		if !ok {
			break
		}
		if err := applyMove(p, move, piles); err != nil {
			return turn, err
		}
		turn.Moves = append(turn.Moves, move)

		if p.HasWon() {
			turn.Won = true
			return turn, nil
		}
		if p.Hand.IsEmpty() {
			p.RefillHand(deck)
		}
	}

	if p.Hand.IsEmpty() {
		return turn, ErrNoDiscard
	}

	handIndex := rng.Intn(p.Hand.Size())
	discardIndex := rng.Intn(len(p.Discards))
	if err := p.DiscardFromHand(handIndex, discardIndex); err != nil {
		return turn, err
	}
	turn.Discarded = true
	turn.HandIndex = handIndex
	turn.DiscardIndex = discardIndex
	return turn, nil
}

func pickMove(p *engine.Player, piles []*card.BuildingPile, rng *rand.Rand) (rules.Move, bool) {
	if targets := rules.FindPlayableFromStock(p.Stock, piles); len(targets) > 0 {
		b := targets[rng.Intn(len(targets))]
		return rules.Move{Source: rules.SourceStock, SourceIndex: -1, BuildingIndex: b}, true
	}

	var handMoves []rules.Move
	for h := 0; h < p.Hand.Size(); h++ {
		for _, b := range rules.FindPlayableFromHand(p.Hand, h, piles) {
			handMoves = append(handMoves, rules.Move{Source: rules.SourceHand, SourceIndex: h, BuildingIndex: b})
		}
	}
	if len(handMoves) > 0 {
		return handMoves[rng.Intn(len(handMoves))], true
	}

	var discardMoves []rules.Move
	for d := range p.Discards {
		for _, b := range rules.FindPlayableFromDiscard(p.Discards, d, piles) {
			discardMoves = append(discardMoves, rules.Move{Source: rules.SourceDiscard, SourceIndex: d, BuildingIndex: b})
		}
	}
	if len(discardMoves) > 0 {
		return discardMoves[rng.Intn(len(discardMoves))], true
	}

	return rules.Move{}, false
}

func applyMove(p *engine.Player, m rules.Move, piles []*card.BuildingPile) error {
	pile := piles[m.BuildingIndex]
	switch m.Source {
	case rules.SourceStock:
		return p.PlayFromStock(pile)
	case rules.SourceHand:
		return p.PlayFromHand(m.SourceIndex, pile)
	default:
		return p.PlayFromDiscard(m.SourceIndex, pile)
	}
}
