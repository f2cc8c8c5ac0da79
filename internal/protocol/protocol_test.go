package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skipbo/internal/card"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		name string
		line string
		want ClientCommand
	}{
		{name: "hello with features", line: "HELLO~alice~CL", want: Hello{Name: "alice", Features: "CL"}},
		{name: "hello without features", line: "HELLO~bob", want: Hello{Name: "bob"}},
		{name: "hello empty trailing field", line: "HELLO~bob~", want: Hello{Name: "bob", Features: ""}},
		{name: "lowercase verb", line: "hello~carol", want: Hello{Name: "carol"}},
		{name: "game", line: "GAME~4", want: GameRequest{Count: 4}},
		{name: "hand", line: "HAND", want: HandRequest{}},
		{name: "table", line: "TABLE", want: TableRequest{}},
		{name: "play from stock", line: "PLAY~S~B.0", want: Play{
			From: Position{Kind: PileStock, Index: -1},
			To:   Position{Kind: PileBuilding, Index: 0},
		}},
		{name: "play from hand", line: "PLAY~H.3~B.2", want: Play{
			From: Position{Kind: PileHand, Index: 3},
			To:   Position{Kind: PileBuilding, Index: 2},
		}},
		{name: "play from discard lowercase", line: "play~d.1~b.3", want: Play{
			From: Position{Kind: PileDiscard, Index: 1},
			To:   Position{Kind: PileBuilding, Index: 3},
		}},
		{name: "bare end", line: "END", want: EndTurn{}},
		{name: "explicit end", line: "END~H.2~D.1", want: EndTurn{Explicit: true, HandIndex: 2, DiscardIndex: 1}},
		{name: "addbot", line: "ADDBOT", want: AddBot{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCommand(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	cases := []struct {
		name    string
		line    string
		wantErr error
	}{
		{name: "unknown verb", line: "FROBNICATE~1", wantErr: ErrUnknownCommand},
		{name: "hello missing name", line: "HELLO", wantErr: ErrInvalidName},
		{name: "hello blank name", line: "HELLO~   ", wantErr: ErrInvalidName},
		{name: "game missing count", line: "GAME", wantErr: ErrBadArguments},
		{name: "game non-numeric", line: "GAME~many", wantErr: ErrBadArguments},
		{name: "play missing target", line: "PLAY~S", wantErr: ErrBadArguments},
		{name: "play bad source", line: "PLAY~Q.1~B.0", wantErr: ErrBadPosition},
		{name: "play target not building", line: "PLAY~S~D.0", wantErr: ErrBadPosition},
		{name: "play negative index", line: "PLAY~H.-1~B.0", wantErr: ErrBadPosition},
		{name: "end with bad piles", line: "END~D.0~H.1", wantErr: ErrBadPosition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCommand(tc.line)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCardTokens(t *testing.T) {
	seven, err := card.Numbered(card.Green, 7)
	require.NoError(t, err)

	assert.Equal(t, "7", CardToken(seven))
	assert.Equal(t, "SB", CardToken(card.Wild()))
	assert.Equal(t, "X", TopToken(card.Card{}, false))
	assert.Equal(t, "12", TopToken(mustNumbered(t, 12), true))
}

func TestServerMessageEncoding(t *testing.T) {
	assert.Equal(t, "WELCOME~alice", Welcome("alice"))
	assert.Equal(t, "QUEUE", Queue())
	assert.Equal(t, "START~alice,bob", Start([]string{"alice", "bob"}))
	assert.Equal(t, "TURN~bob", Turn("bob"))
	assert.Equal(t, "WINNER~alice", Winner("alice"))
	assert.Equal(t, "ERROR~206", Error(CodeInvalidMove))
	assert.Equal(t, "BOT_ADDED", BotAdded())

	hand := []card.Card{mustNumbered(t, 4), card.Wild(), mustNumbered(t, 11)}
	assert.Equal(t, "HAND~4,SB,11", Hand(hand))

	assert.Equal(t, "STOCK~alice~9", Stock("alice", "9"))
	assert.Equal(t, "STOCK~bob~X", Stock("bob", EmptyToken))

	table := Table(
		[]string{"3", "X", "SB", "12"},
		[]PlayerTable{
			{Name: "alice", DiscardTops: []string{"X", "5", "X", "X"}},
			{Name: "bob", DiscardTops: []string{"1", "X", "X", "2"}},
		},
	)
	assert.Equal(t, "TABLE~3.X.SB.12~alice.X.5.X.X,bob.1.X.X.2", table)

	play := PlayEcho("alice",
		Position{Kind: PileHand, Index: 2},
		Position{Kind: PileBuilding, Index: 0})
	assert.Equal(t, "PLAY~alice~H.2~B.0", play)

	round := Round([]PlayerScore{{Name: "alice", Score: 25}, {Name: "bob", Score: 0}})
	assert.Equal(t, "ROUND~alice.25,bob.0", round)
}

func TestPositionRoundTrip(t *testing.T) {
	for _, raw := range []string{"S", "H.0", "H.7", "D.3"} {
		pos, err := ParseSource(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, pos.String())
	}
	pos, err := ParseBuilding("B.1")
	require.NoError(t, err)
	assert.Equal(t, "B.1", pos.String())
}

func mustNumbered(t *testing.T, n int) card.Card {
	t.Helper()
	c, err := card.Numbered(card.Red, n)
	require.NoError(t, err)
	return c
}
