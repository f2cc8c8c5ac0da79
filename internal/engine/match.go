package engine

import (
	"errors"
	"math/rand"

	"skipbo/internal/card"
)

var ErrInvalidState = errors.New("action not legal in current phase")
var ErrCapacityExceeded = errors.New("match is full")
var ErrInsufficientPlayers = errors.New("not enough players to start")
var ErrIllegalMove = errors.New("illegal move")
var ErrUnknownPlayer = errors.New("player not in match")

const (
	MinPlayers       = 2
	MaxPlayers       = 6
	NumBuildingPiles = 4
)

type Phase string

const (
	PhaseWaitingForPlayers Phase = "waiting_for_players"
	PhaseInProgress        Phase = "in_progress"
	PhaseRoundOver         Phase = "round_over"
	PhaseGameOver          Phase = "game_over"
)

// ScoreFunc computes round scores from the winner and the final player
// state. The point formula was never settled upstream, so it stays
// pluggable; a nil hook means no scores are reported.
type ScoreFunc func(winner *Player, players []*Player) map[string]int

// Match owns the full state of one game: the roster in join order, the four
// shared building piles, the draw pile and the turn pointer. All pile
// objects reachable from a Match are owned exclusively by it.
type Match struct {
	players      []*Player
	piles        []*card.BuildingPile
	drawPile     *card.Deck
	phase        Phase
	currentIndex int
	winner       *Player
	rng          *rand.Rand
}

func NewMatch(rng *rand.Rand) *Match {
	piles := make([]*card.BuildingPile, NumBuildingPiles)
	for i := range piles {
		piles[i] = card.NewBuildingPile()
	}
	return &Match{
		piles: piles,
		phase: PhaseWaitingForPlayers,
		rng:   rng,
	}
}

// AddPlayer joins a player to the roster. Legal only while waiting for
// players and below the six-player cap.
func (m *Match) AddPlayer(p *Player) error {
	if m.phase != PhaseWaitingForPlayers {
		return ErrInvalidState
	}
	if len(m.players) >= MaxPlayers {
		return ErrCapacityExceeded
	}
	m.players = append(m.players, p)
	return nil
}

// RemovePlayer drops a player from the roster. Legal only while waiting.
func (m *Match) RemovePlayer(name string) error {
	if m.phase != PhaseWaitingForPlayers {
		return ErrInvalidState
	}
	for i, p := range m.players {
		if p.Name == name {
			m.players = append(m.players[:i], m.players[i+1:]...)
			return nil
		}
	}
	return ErrUnknownPlayer
}

// Start shuffles a standard deck and deals: stock piles first (30 cards each
// for 2 players, 20 for 3-4, 15 for 5-6), then five-card hands, all in join
// order. The first joiner takes the first turn.
func (m *Match) Start() error {
	deck := card.NewStandardDeck()
	deck.Shuffle(m.rng)
	return m.StartWithDeck(deck)
}

// StartWithDeck is Start with a caller-supplied draw pile, so tests can
// stack known deals.
func (m *Match) StartWithDeck(deck *card.Deck) error {
	if m.phase != PhaseWaitingForPlayers {
		return ErrInvalidState
	}
	if len(m.players) < MinPlayers {
		return ErrInsufficientPlayers
	}

	m.drawPile = deck

	stockSize := StockSize(len(m.players))
	for _, p := range m.players {
		cards, err := m.drawPile.DrawN(stockSize)
		if err != nil {
			return err
		}
		p.Stock = card.NewStockPile(cards)
	}
	for _, p := range m.players {
		p.RefillHand(m.drawPile)
	}

	m.phase = PhaseInProgress
	m.currentIndex = 0
	return nil
}

// StockSize is the per-player stock deal for a given player count.
func StockSize(playerCount int) int {
	switch {
	case playerCount <= 2:
		return 30
	case playerCount <= 4:
		return 20
	default:
		return 15
	}
}

// CurrentPlayer returns the player whose turn it is. Fails outside
// InProgress.
func (m *Match) CurrentPlayer() (*Player, error) {
	if m.phase != PhaseInProgress {
		return nil, ErrInvalidState
	}
	return m.players[m.currentIndex], nil
}

// NextTurn advances the turn pointer, wrapping after the last player.
func (m *Match) NextTurn() error {
	if m.phase != PhaseInProgress {
		return ErrInvalidState
	}
	m.currentIndex = (m.currentIndex + 1) % len(m.players)
	return nil
}

// IsPlayerTurn is false whenever the match is not in progress, even for the
// nominal current player.
func (m *Match) IsPlayerTurn(p *Player) bool {
	if m.phase != PhaseInProgress {
		return false
	}
	return m.players[m.currentIndex] == p
}

// EndRound freezes the match with the given winner.
func (m *Match) EndRound(winner *Player) error {
	if m.phase != PhaseInProgress {
		return ErrInvalidState
	}
	m.phase = PhaseRoundOver
	m.winner = winner
	return nil
}

// EndGame terminates the match outright.
func (m *Match) EndGame() {
	m.phase = PhaseGameOver
}

func (m *Match) Phase() Phase {
	return m.phase
}

func (m *Match) Winner() *Player {
	return m.winner
}

func (m *Match) Players() []*Player {
	return m.players
}

func (m *Match) PlayerCount() int {
	return len(m.players)
}

// BuildingPile returns the pile at index 0..3.
func (m *Match) BuildingPile(index int) (*card.BuildingPile, error) {
	if index < 0 || index >= len(m.piles) {
		return nil, ErrIllegalMove
	}
	return m.piles[index], nil
}

func (m *Match) BuildingPiles() []*card.BuildingPile {
	return m.piles
}

func (m *Match) DrawPile() *card.Deck {
	return m.drawPile
}
