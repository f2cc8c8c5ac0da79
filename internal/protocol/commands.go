package protocol

import (
	"strconv"
	"strings"
)

// ClientCommand is one parsed client->server line.
type ClientCommand interface{ isClientCommand() }

// Hello registers a player name. Features carries the optional feature
// letters from the third field; they are recorded but not acted on.
type Hello struct {
	Name     string
	Features string
}

// GameRequest asks to join a session sized Count (2..6).
type GameRequest struct {
	Count int
}

// HandRequest asks for the caller's current hand.
type HandRequest struct{}

// TableRequest asks for the building-pile and discard snapshot.
type TableRequest struct{}

// Play moves a card from a source pile onto a building pile.
type Play struct {
	From Position
	To   Position
}

// EndTurn discards to end the turn. Without an explicit choice the server
// discards hand index 0 to discard pile 0; END~H.<i>~D.<j> selects both.
type EndTurn struct {
	Explicit     bool
	HandIndex    int
	DiscardIndex int
}

// AddBot puts an automated player into the waiting pool.
type AddBot struct{}

func (Hello) isClientCommand()        {}
func (GameRequest) isClientCommand()  {}
func (HandRequest) isClientCommand()  {}
func (TableRequest) isClientCommand() {}
func (Play) isClientCommand()         {}
func (EndTurn) isClientCommand()      {}
func (AddBot) isClientCommand()       {}

// ParseCommand parses one client line. The verb is case-insensitive.
// Unknown verbs and wrong field counts return ErrUnknownCommand or
// ErrBadArguments (both report as code 204); malformed positions return
// ErrBadPosition (code 206, matching the bounds-check rule).
func ParseCommand(line string) (ClientCommand, error) {
	parts := strings.Split(line, FieldSep)
	verb := strings.ToUpper(parts[0])

	switch verb {
	case "HELLO":
		if len(parts) < 2 {
			return nil, ErrInvalidName
		}
		name := strings.TrimSpace(parts[1])
		if name == "" {
			return nil, ErrInvalidName
		}
		features := ""
		if len(parts) > 2 {
			features = parts[2]
		}
		return Hello{Name: name, Features: features}, nil

	case "GAME":
		if len(parts) < 2 {
			return nil, ErrBadArguments
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, ErrBadArguments
		}
		return GameRequest{Count: n}, nil

	case "HAND":
		return HandRequest{}, nil

	case "TABLE":
		return TableRequest{}, nil

	case "PLAY":
		if len(parts) < 3 {
			return nil, ErrBadArguments
		}
		from, err := ParseSource(parts[1])
		if err != nil {
			return nil, err
		}
		to, err := ParseBuilding(parts[2])
		if err != nil {
			return nil, err
		}
		return Play{From: from, To: to}, nil

	case "END":
		if len(parts) == 1 {
			return EndTurn{}, nil
		}
		if len(parts) < 3 {
			return nil, ErrBadArguments
		}
		hand, err := ParseSource(parts[1])
		if err != nil || hand.Kind != PileHand {
			return nil, ErrBadPosition
		}
		discard, err := ParseSource(parts[2])
		if err != nil || discard.Kind != PileDiscard {
			return nil, ErrBadPosition
		}
		return EndTurn{Explicit: true, HandIndex: hand.Index, DiscardIndex: discard.Index}, nil

	case "ADDBOT":
		return AddBot{}, nil

	default:
		return nil, ErrUnknownCommand
	}
}
