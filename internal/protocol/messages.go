package protocol

import (
	"strconv"
	"strings"

	"skipbo/internal/card"
)

// Server->client message encoders. Each returns one protocol line without
// the trailing newline.

func Welcome(name string) string {
	return "WELCOME" + FieldSep + name
}

func Queue() string {
	return "QUEUE"
}

func Start(players []string) string {
	return "START" + FieldSep + strings.Join(players, ListSep)
}

func Turn(player string) string {
	return "TURN" + FieldSep + player
}

func Hand(cards []card.Card) string {
	tokens := make([]string, len(cards))
	for i, c := range cards {
		tokens[i] = CardToken(c)
	}
	return "HAND" + FieldSep + strings.Join(tokens, ListSep)
}

// Stock reports a player's stock-pile top card, "X" when the stock is empty.
func Stock(player, topToken string) string {
	return "STOCK" + FieldSep + player + FieldSep + topToken
}

// PlayerTable is one player's slice of the TABLE payload: the name followed
// by the four discard-pile tops.
type PlayerTable struct {
	Name        string
	DiscardTops []string
}

// Table encodes the shared snapshot: the four building-pile tops dot-joined,
// then each player's name-and-discards group comma-joined.
func Table(buildingTops []string, players []PlayerTable) string {
	groups := make([]string, len(players))
	for i, p := range players {
		groups[i] = p.Name + ValueSep + strings.Join(p.DiscardTops, ValueSep)
	}
	return "TABLE" + FieldSep +
		strings.Join(buildingTops, ValueSep) + FieldSep +
		strings.Join(groups, ListSep)
}

// PlayEcho broadcasts an accepted move in canonical position form.
func PlayEcho(player string, from, to Position) string {
	return "PLAY" + FieldSep + player + FieldSep + from.String() + FieldSep + to.String()
}

func Winner(player string) string {
	return "WINNER" + FieldSep + player
}

// PlayerScore is one entry of a ROUND report.
type PlayerScore struct {
	Name  string
	Score int
}

// Round reports end-of-round scores as player.score pairs.
func Round(scores []PlayerScore) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = s.Name + ValueSep + strconv.Itoa(s.Score)
	}
	return "ROUND" + FieldSep + strings.Join(parts, ListSep)
}

func BotAdded() string {
	return "BOT_ADDED"
}

func Error(code string) string {
	return "ERROR" + FieldSep + code
}
