// Package protocol implements the tilde-delimited line protocol: one message
// per line, fields joined by "~", sub-fields by ".", list items by ",".
// Splitting is unconditional, so empty trailing fields survive as empty
// strings. Bit-exact output matters here for interop with external clients.
package protocol

import (
	"errors"
	"strconv"
	"strings"

	"skipbo/internal/card"
)

const (
	FieldSep = "~"
	ValueSep = "."
	ListSep  = ","
)

// Error codes carried by ERROR~<code> lines.
const (
	CodeInvalidName        = "001"
	CodeNameInUse          = "002"
	CodePlayerDisconnected = "103"
	CodeInvalidCommand     = "204"
	CodeNotAllowed         = "205"
	CodeInvalidMove        = "206"
)

var ErrUnknownCommand = errors.New("unknown command")
var ErrBadArguments = errors.New("wrong argument count or format")
var ErrInvalidName = errors.New("invalid player name")
var ErrBadPosition = errors.New("malformed pile position")

// EmptyToken marks an empty pile slot in HAND/STOCK/TABLE payloads.
const EmptyToken = "X"

// CardToken renders a card for the wire: its number, or "SB" for wildcards.
func CardToken(c card.Card) string {
	if c.IsWild() {
		return "SB"
	}
	return strconv.Itoa(c.Number)
}

// TopToken renders a pile top, or "X" when the pile is empty.
func TopToken(c card.Card, ok bool) string {
	if !ok {
		return EmptyToken
	}
	return CardToken(c)
}

type PileKind int

const (
	PileStock PileKind = iota
	PileHand
	PileDiscard
	PileBuilding
)

// Position names a pile on the wire: "S", "H.<i>", "D.<i>" or "B.<i>",
// 0-based indices. Stock has no index.
type Position struct {
	Kind  PileKind
	Index int
}

func (p Position) String() string {
	switch p.Kind {
	case PileStock:
		return "S"
	case PileHand:
		return "H" + ValueSep + strconv.Itoa(p.Index)
	case PileDiscard:
		return "D" + ValueSep + strconv.Itoa(p.Index)
	default:
		return "B" + ValueSep + strconv.Itoa(p.Index)
	}
}

// ParseSource parses a PLAY source field: S, H.<i> or D.<i>.
func ParseSource(field string) (Position, error) {
	upper := strings.ToUpper(field)
	if upper == "S" {
		return Position{Kind: PileStock, Index: -1}, nil
	}
	switch {
	case strings.HasPrefix(upper, "H"+ValueSep):
		return indexed(PileHand, upper[2:])
	case strings.HasPrefix(upper, "D"+ValueSep):
		return indexed(PileDiscard, upper[2:])
	default:
		return Position{}, ErrBadPosition
	}
}

// ParseBuilding parses a PLAY target field: B.<i>.
func ParseBuilding(field string) (Position, error) {
	upper := strings.ToUpper(field)
	if !strings.HasPrefix(upper, "B"+ValueSep) {
		return Position{}, ErrBadPosition
	}
	return indexed(PileBuilding, upper[2:])
}

func indexed(kind PileKind, raw string) (Position, error) {
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return Position{}, ErrBadPosition
	}
	return Position{Kind: kind, Index: idx}, nil
}
