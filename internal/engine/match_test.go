package engine

import (
	"errors"
	"math/rand"
	"testing"

	"skipbo/internal/card"
)

func newTestMatch(t *testing.T, names ...string) *Match {
	t.Helper()
	m := NewMatch(rand.New(rand.NewSource(1)))
	for _, name := range names {
		if err := m.AddPlayer(NewPlayer(name, Interactive)); err != nil {
			t.Fatalf("AddPlayer(%s): %v", name, err)
		}
	}
	return m
}

func TestStockSize(t *testing.T) {
	cases := []struct {
		players int
		want    int
	}{
		{players: 2, want: 30},
		{players: 3, want: 20},
		{players: 4, want: 20},
		{players: 5, want: 15},
		{players: 6, want: 15},
	}
	for _, tc := range cases {
		if got := StockSize(tc.players); got != tc.want {
			t.Fatalf("StockSize(%d): got %d, want %d", tc.players, got, tc.want)
		}
	}
}

func TestStartDealsStockAndHands(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 6} {
		names := []string{"p1", "p2", "p3", "p4", "p5", "p6"}[:n]
		m := newTestMatch(t, names...)
		if err := m.Start(); err != nil {
			t.Fatalf("%d players: Start: %v", n, err)
		}

		stockSize := StockSize(n)
		for _, p := range m.Players() {
			if p.Stock.Size() != stockSize {
				t.Fatalf("%d players: stock of %s: got %d, want %d", n, p.Name, p.Stock.Size(), stockSize)
			}
			if p.Hand.Size() != card.HandCapacity {
				t.Fatalf("%d players: hand of %s: got %d, want %d", n, p.Name, p.Hand.Size(), card.HandCapacity)
			}
		}

		dealt := n*stockSize + n*card.HandCapacity
		if got := m.DrawPile().Size(); got != card.StandardDeckSize-dealt {
			t.Fatalf("%d players: draw pile: got %d, want %d", n, got, card.StandardDeckSize-dealt)
		}
	}
}

func TestStartPreconditions(t *testing.T) {
	m := newTestMatch(t, "solo")
	if err := m.Start(); !errors.Is(err, ErrInsufficientPlayers) {
		t.Fatalf("Start with 1 player: got %v, want ErrInsufficientPlayers", err)
	}

	m = newTestMatch(t, "a", "b")
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Start(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double Start: got %v, want ErrInvalidState", err)
	}
}

func TestAddPlayerPhaseAndCapacity(t *testing.T) {
	m := newTestMatch(t, "a", "b", "c", "d", "e", "f")
	if err := m.AddPlayer(NewPlayer("g", Interactive)); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("7th player: got %v, want ErrCapacityExceeded", err)
	}

	m = newTestMatch(t, "a", "b")
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.AddPlayer(NewPlayer("late", Interactive)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("add after start: got %v, want ErrInvalidState", err)
	}
	if err := m.RemovePlayer("a"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("remove after start: got %v, want ErrInvalidState", err)
	}
}

func TestRemovePlayerWhileWaiting(t *testing.T) {
	m := newTestMatch(t, "a", "b")
	if err := m.RemovePlayer("a"); err != nil {
		t.Fatalf("RemovePlayer: %v", err)
	}
	if m.PlayerCount() != 1 {
		t.Fatalf("player count: got %d, want 1", m.PlayerCount())
	}
	if err := m.RemovePlayer("ghost"); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("remove unknown: got %v, want ErrUnknownPlayer", err)
	}
}

func TestExactlyOneCurrentPlayer(t *testing.T) {
	m := newTestMatch(t, "a", "b", "c")

	// Before start nobody has the turn.
	for _, p := range m.Players() {
		if m.IsPlayerTurn(p) {
			t.Fatalf("no turn should exist before start")
		}
	}

	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for round := 0; round < 7; round++ {
		owners := 0
		for _, p := range m.Players() {
			if m.IsPlayerTurn(p) {
				owners++
			}
		}
		if owners != 1 {
			t.Fatalf("turn owners after %d advances: got %d, want 1", round, owners)
		}
		if err := m.NextTurn(); err != nil {
			t.Fatalf("NextTurn: %v", err)
		}
	}
}

func TestNextTurnWrapsInJoinOrder(t *testing.T) {
	m := newTestMatch(t, "a", "b", "c")
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	want := []string{"a", "b", "c", "a"}
	for i, name := range want {
		current, err := m.CurrentPlayer()
		if err != nil {
			t.Fatalf("CurrentPlayer: %v", err)
		}
		if current.Name != name {
			t.Fatalf("turn %d: got %s, want %s", i, current.Name, name)
		}
		if err := m.NextTurn(); err != nil {
			t.Fatalf("NextTurn: %v", err)
		}
	}
}

func TestEndRoundFreezesMatch(t *testing.T) {
	m := newTestMatch(t, "a", "b")
	if err := m.EndRound(nil); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("EndRound before start: got %v, want ErrInvalidState", err)
	}

	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	winner := m.Players()[0]
	if err := m.EndRound(winner); err != nil {
		t.Fatalf("EndRound: %v", err)
	}
	if m.Phase() != PhaseRoundOver {
		t.Fatalf("phase: got %s, want %s", m.Phase(), PhaseRoundOver)
	}
	if m.Winner() != winner {
		t.Fatalf("winner not recorded")
	}
	if m.IsPlayerTurn(winner) {
		t.Fatalf("nobody's turn after round over")
	}
	if err := m.NextTurn(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("NextTurn after round over: got %v, want ErrInvalidState", err)
	}
}

// Scenario: stock top matches pile 0's next required value; playing it
// advances the pile and shrinks the stock.
func TestPlayFromStockAdvancesPile(t *testing.T) {
	m := newTestMatch(t, "p1", "p2")

	// Stack the deck so p1's stock top is a 1: stocks deal 30 cards each
	// from the end of the deck, then hands of 5.
	deck := card.NewStandardDeck()
	if err := m.StartWithDeck(deck); err != nil {
		t.Fatalf("StartWithDeck: %v", err)
	}

	p1 := m.Players()[0]
	// Force a known stock: replace with a single 1 on top.
	one, _ := card.Numbered(card.Red, 1)
	two, _ := card.Numbered(card.Red, 2)
	p1.Stock = card.NewStockPile([]card.Card{two, one})

	pile, err := m.BuildingPile(0)
	if err != nil {
		t.Fatalf("BuildingPile(0): %v", err)
	}
	if err := p1.PlayFromStock(pile); err != nil {
		t.Fatalf("PlayFromStock: %v", err)
	}
	if pile.NextRequired() != 2 {
		t.Fatalf("NextRequired: got %d, want 2", pile.NextRequired())
	}
	if p1.Stock.Size() != 1 {
		t.Fatalf("stock size: got %d, want 1", p1.Stock.Size())
	}
}

func TestPlayFromHandIllegalLeavesHandIntact(t *testing.T) {
	m := newTestMatch(t, "p1", "p2")
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	p1 := m.Players()[0]
	pile, _ := m.BuildingPile(0)

	before := p1.Hand.Size()
	if err := p1.PlayFromHand(9, pile); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("out-of-range hand index: got %v, want ErrIllegalMove", err)
	}
	if p1.Hand.Size() != before {
		t.Fatalf("hand size changed on failed play: %d -> %d", before, p1.Hand.Size())
	}
}

func TestDiscardFromHand(t *testing.T) {
	p := NewPlayer("p", Interactive)
	five, _ := card.Numbered(card.Green, 5)
	_ = p.Hand.Add(five)

	if err := p.DiscardFromHand(0, 9); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("bad discard index: got %v, want ErrIllegalMove", err)
	}
	if err := p.DiscardFromHand(0, 2); err != nil {
		t.Fatalf("DiscardFromHand: %v", err)
	}
	top, ok := p.Discards[2].Top()
	if !ok || top != five {
		t.Fatalf("discard top: got %v/%v, want %v", top, ok, five)
	}
	if !p.Hand.IsEmpty() {
		t.Fatalf("hand should be empty after discard")
	}
}

func TestRefillHandStopsAtEmptyDeck(t *testing.T) {
	p := NewPlayer("p", Interactive)
	one, _ := card.Numbered(card.Red, 1)
	deck := card.NewDeckFrom(one, one)

	p.RefillHand(deck)
	if p.Hand.Size() != 2 {
		t.Fatalf("hand size: got %d, want 2", p.Hand.Size())
	}
	if !deck.IsEmpty() {
		t.Fatalf("deck should be exhausted")
	}
	// No panic, no error: a short hand is acceptable late in the game.
	p.RefillHand(deck)
	if p.Hand.Size() != 2 {
		t.Fatalf("second refill changed hand: %d", p.Hand.Size())
	}
}
