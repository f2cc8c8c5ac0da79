package session

import (
	"skipbo/internal/engine"
	"skipbo/internal/protocol"
)

// Msg is one unit of work for the session actor. Every mutation of match
// state happens by sending one of these into the inbox; the loop applies
// them one at a time, which is the whole concurrency story.
type Msg interface{ isSessionMsg() }

// Register claims a player name and attaches an outbox for server lines.
// Reply reports acceptance; the WELCOME or ERROR line itself is delivered
// through the outbox either way.
type Register struct {
	Name     string
	Features string
	Outbox   chan<- string
	Reply    chan bool
}

// Leave drops a connection's bookkeeping. An in-progress match keeps the
// player's piles; they simply stop changing.
type Leave struct {
	Name string
}

// RequestGame asks to join a session sized Count. The first request fixes
// the target; later counts are accepted but ignored.
type RequestGame struct {
	Name  string
	Count int
}

// AddBot puts an automated player into the waiting pool.
type AddBot struct {
	Name string
}

// PlayCard applies a PLAY command for the named player.
type PlayCard struct {
	Name string
	From protocol.Position
	To   protocol.Position
}

// EndTurn applies an END command: discard one hand card and pass the turn.
type EndTurn struct {
	Name         string
	Explicit     bool
	HandIndex    int
	DiscardIndex int
}

// QueryHand asks for the caller's HAND line.
type QueryHand struct {
	Name string
}

// QueryTable asks for the shared TABLE snapshot.
type QueryTable struct {
	Name string
}

// botTurn re-enters the loop after the bot's think delay; the delay happens
// on a throwaway goroutine so the inbox stays live while the bot "thinks".
type botTurn struct {
	Name string
}

// GetView reflects internal state without data races; test-only.
type GetView struct {
	Reply chan View
}

// Shutdown stops the loop.
type Shutdown struct{}

func (Register) isSessionMsg()    {}
func (Leave) isSessionMsg()       {}
func (RequestGame) isSessionMsg() {}
func (AddBot) isSessionMsg()      {}
func (PlayCard) isSessionMsg()    {}
func (EndTurn) isSessionMsg()     {}
func (QueryHand) isSessionMsg()   {}
func (QueryTable) isSessionMsg()  {}
func (botTurn) isSessionMsg()     {}
func (GetView) isSessionMsg()     {}
func (Shutdown) isSessionMsg()    {}

// View is a copy of the session's bookkeeping for tests.
type View struct {
	Waiting       []string
	Target        int
	Phase         engine.Phase
	MatchPlayers  []string
	CurrentPlayer string
}
