// Package session is the authoritative orchestrator for one match: it owns
// registration, matchmaking, the Match itself, turn completion and bot
// scheduling. A single goroutine drains the inbox, so commands from any
// number of connections — and bot turns — apply strictly one at a time.
package session

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/zap"

	"skipbo/internal/bot"
	"skipbo/internal/card"
	"skipbo/internal/engine"
	"skipbo/internal/protocol"
	"skipbo/internal/rules"
)

// DefaultBotDelay is how long a bot pretends to think before acting.
const DefaultBotDelay = 500 * time.Millisecond

type waiter struct {
	name string
	kind engine.Kind
}

// Session holds the waiting pool and at most one active match. All fields
// below are touched only from the loop goroutine.
type Session struct {
	inbox      chan Msg
	log        *zap.Logger
	rng        *rand.Rand
	botDelay   time.Duration
	scoreFn    engine.ScoreFunc
	deckSource func() *card.Deck

	// registered names -> outbox; bots are present with a nil channel, so
	// map membership doubles as the name-in-use check.
	outboxes map[string]chan<- string

	waiting    []waiter // insertion order decides seating
	target     int      // 0 until the first GAME request fixes it
	botSeq     int
	match      *engine.Match
	matchSeats map[string]*engine.Player // participants of the active match

	ctx    context.Context
	cancel context.CancelFunc
}

// Option tweaks session construction.
type Option func(*Session)

// WithBotDelay overrides the bot think delay (tests use zero).
func WithBotDelay(d time.Duration) Option {
	return func(s *Session) { s.botDelay = d }
}

// WithScoreFunc installs the round-scoring hook; when set, a ROUND line with
// per-player scores follows every WINNER broadcast.
func WithScoreFunc(f engine.ScoreFunc) Option {
	return func(s *Session) { s.scoreFn = f }
}

// WithRand injects the randomness source used for shuffling and bot choice.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithDeckSource supplies the draw pile for new matches instead of a
// shuffled standard deck; tests use it to stack known deals.
func WithDeckSource(f func() *card.Deck) Option {
	return func(s *Session) { s.deckSource = f }
}

func New(parent context.Context, log *zap.Logger, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:      make(chan Msg, 64),
		log:        log,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		botDelay:   DefaultBotDelay,
		outboxes:   make(map[string]chan<- string),
		matchSeats: make(map[string]*engine.Player),
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.loop()
	return s
}

// Inbox is where transports (and tests) send commands.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case m := <-s.inbox:
			switch msg := m.(type) {
			case Register:
				s.handleRegister(msg)
			case Leave:
				s.handleLeave(msg)
			case RequestGame:
				s.handleRequestGame(msg)
			case AddBot:
				s.handleAddBot(msg)
			case PlayCard:
				s.handlePlay(msg)
			case EndTurn:
				s.handleEndTurn(msg)
			case QueryHand:
				s.handleQueryHand(msg)
			case QueryTable:
				s.handleQueryTable(msg)
			case botTurn:
				s.handleBotTurn(msg)
			case GetView:
				msg.Reply <- s.view()
			case Shutdown:
				s.cancel()
				return
			}
		}
	}
}

// ===== registration =====

func (s *Session) handleRegister(msg Register) {
	if s.nameInUse(msg.Name) {
		s.sendTo(msg.Outbox, protocol.Error(protocol.CodeNameInUse))
		msg.Reply <- false
		return
	}
	s.outboxes[msg.Name] = msg.Outbox
	s.sendTo(msg.Outbox, protocol.Welcome(msg.Name))
	msg.Reply <- true
	s.log.Info("player registered",
		zap.String("player", msg.Name),
		zap.String("features", msg.Features))
}

// nameInUse spans live connections and the seats of an in-progress match, so
// a new connection cannot claim a departed player's seat and play it out.
func (s *Session) nameInUse(name string) bool {
	if _, taken := s.outboxes[name]; taken {
		return true
	}
	if _, seated := s.matchSeats[name]; seated {
		return s.match != nil && s.match.Phase() == engine.PhaseInProgress
	}
	return false
}

func (s *Session) handleLeave(msg Leave) {
	if _, known := s.outboxes[msg.Name]; !known {
		return
	}
	delete(s.outboxes, msg.Name)
	for i, w := range s.waiting {
		if w.name == msg.Name {
			s.waiting = append(s.waiting[:i], s.waiting[i+1:]...)
			break
		}
	}
	if _, seated := s.matchSeats[msg.Name]; seated {
		// Their piles stay on the table; nothing will move them again. The
		// rest of the match hears about it.
		s.broadcast(protocol.Error(protocol.CodePlayerDisconnected))
		s.log.Warn("player left mid-match", zap.String("player", msg.Name))
		return
	}
	s.log.Info("player left", zap.String("player", msg.Name))
}

// ===== matchmaking =====

func (s *Session) handleRequestGame(msg RequestGame) {
	if msg.Count < engine.MinPlayers || msg.Count > engine.MaxPlayers {
		s.sendError(msg.Name, protocol.CodeInvalidCommand)
		return
	}
	if s.match != nil && s.match.Phase() == engine.PhaseInProgress {
		s.sendError(msg.Name, protocol.CodeNotAllowed)
		return
	}

	// The first request fixes the session size; a later request with a
	// different count joins the queue but does not resize it.
	if s.target == 0 {
		s.target = msg.Count
	}

	// Registration only claims the name; the GAME request is what puts a
	// player in the pool, and it is how a finished match's players rejoin.
	s.ensureWaiting(msg.Name, engine.Interactive)

	s.send(msg.Name, protocol.Queue())

	if len(s.waiting) >= s.target {
		s.startMatch()
	}
}

func (s *Session) handleAddBot(msg AddBot) {
	if s.match != nil && s.match.Phase() == engine.PhaseInProgress {
		s.sendError(msg.Name, protocol.CodeNotAllowed)
		return
	}

	s.botSeq++
	botName := "Bot" + strconv.Itoa(s.botSeq)
	s.outboxes[botName] = nil
	s.waiting = append(s.waiting, waiter{name: botName, kind: engine.Automated})
	s.send(msg.Name, protocol.BotAdded())
	s.log.Info("bot added", zap.String("bot", botName))

	if s.target > 0 && len(s.waiting) >= s.target {
		s.startMatch()
	}
}

func (s *Session) ensureWaiting(name string, kind engine.Kind) {
	for _, w := range s.waiting {
		if w.name == name {
			return
		}
	}
	s.waiting = append(s.waiting, waiter{name: name, kind: kind})
}

func (s *Session) startMatch() {
	m := engine.NewMatch(s.rng)
	seated := s.waiting[:s.target]
	s.waiting = s.waiting[s.target:]

	// A finished match's seating is discarded wholesale; the new roster
	// replaces it.
	s.matchSeats = make(map[string]*engine.Player)

	names := make([]string, 0, len(seated))
	for _, w := range seated {
		p := engine.NewPlayer(w.name, w.kind)
		if err := m.AddPlayer(p); err != nil {
			s.log.Error("seating failed", zap.String("player", w.name), zap.Error(err))
			return
		}
		s.matchSeats[w.name] = p
		names = append(names, w.name)
	}

	var err error
	if s.deckSource != nil {
		err = m.StartWithDeck(s.deckSource())
	} else {
		err = m.Start()
	}
	if err != nil {
		s.log.Error("match start failed", zap.Error(err))
		return
	}
	s.match = m
	s.log.Info("match started", zap.Strings("players", names))

	s.broadcast(protocol.Start(names))
	for _, name := range names {
		s.sendHand(name)
		s.broadcastStock(name)
	}
	s.announceTurn()
}

// ===== turn handling =====

func (s *Session) handlePlay(msg PlayCard) {
	p, ok := s.actingPlayer(msg.Name)
	if !ok {
		return
	}

	if msg.To.Index >= engine.NumBuildingPiles {
		s.sendError(msg.Name, protocol.CodeInvalidMove)
		return
	}
	pile, err := s.match.BuildingPile(msg.To.Index)
	if err != nil {
		s.sendError(msg.Name, protocol.CodeInvalidMove)
		return
	}

	switch msg.From.Kind {
	case protocol.PileStock:
		err = p.PlayFromStock(pile)
	case protocol.PileHand:
		err = p.PlayFromHand(msg.From.Index, pile)
	case protocol.PileDiscard:
		err = p.PlayFromDiscard(msg.From.Index, pile)
	default:
		err = engine.ErrIllegalMove
	}
	if err != nil {
		s.sendError(msg.Name, protocol.CodeInvalidMove)
		return
	}

	s.broadcast(protocol.PlayEcho(msg.Name, msg.From, msg.To))

	if p.HasWon() {
		s.finishRound(p)
		return
	}
	if p.Hand.IsEmpty() {
		p.RefillHand(s.match.DrawPile())
		s.sendHand(msg.Name)
	}
}

func (s *Session) handleEndTurn(msg EndTurn) {
	p, ok := s.actingPlayer(msg.Name)
	if !ok {
		return
	}
	if p.Hand.IsEmpty() {
		s.sendError(msg.Name, protocol.CodeInvalidMove)
		return
	}

	// Bare END lets the server choose: first hand card to the first discard
	// pile. END~H.<i>~D.<j> picks explicitly.
	handIndex, discardIndex := 0, 0
	if msg.Explicit {
		handIndex, discardIndex = msg.HandIndex, msg.DiscardIndex
	}
	if err := p.DiscardFromHand(handIndex, discardIndex); err != nil {
		s.sendError(msg.Name, protocol.CodeInvalidMove)
		return
	}

	s.advanceTurn()
}

// advanceTurn moves to the next seat, refills the incoming player's hand and
// announces the new turn.
func (s *Session) advanceTurn() {
	if err := s.match.NextTurn(); err != nil {
		s.log.Error("turn advance failed", zap.Error(err))
		return
	}
	next, err := s.match.CurrentPlayer()
	if err != nil {
		s.log.Error("no current player", zap.Error(err))
		return
	}
	next.RefillHand(s.match.DrawPile())
	s.sendHand(next.Name)
	s.announceTurn()
}

func (s *Session) announceTurn() {
	current, err := s.match.CurrentPlayer()
	if err != nil {
		return
	}
	s.broadcast(protocol.Turn(current.Name))
	if current.Kind == engine.Automated {
		s.scheduleBotTurn(current.Name)
	}
}

func (s *Session) finishRound(winner *engine.Player) {
	if err := s.match.EndRound(winner); err != nil {
		s.log.Error("round end failed", zap.Error(err))
		return
	}
	s.broadcast(protocol.Winner(winner.Name))
	s.log.Info("round won", zap.String("winner", winner.Name))

	if s.scoreFn != nil {
		scores := s.scoreFn(winner, s.match.Players())
		report := make([]protocol.PlayerScore, 0, len(s.match.Players()))
		for _, p := range s.match.Players() {
			report = append(report, protocol.PlayerScore{Name: p.Name, Score: scores[p.Name]})
		}
		s.broadcast(protocol.Round(report))
	}
}

// ===== bot turns =====

// scheduleBotTurn waits out the think delay off the loop goroutine, then
// feeds the turn back through the inbox so it serializes with everything
// else.
func (s *Session) scheduleBotTurn(name string) {
	go func() {
		select {
		case <-time.After(s.botDelay):
		case <-s.ctx.Done():
			return
		}
		select {
		case s.inbox <- botTurn{Name: name}:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Session) handleBotTurn(msg botTurn) {
	if s.match == nil || s.match.Phase() != engine.PhaseInProgress {
		return
	}
	current, err := s.match.CurrentPlayer()
	if err != nil || current.Name != msg.Name {
		return
	}

	turn, err := bot.PlayTurn(current, s.match.BuildingPiles(), s.match.DrawPile(), s.rng)
	for _, mv := range turn.Moves {
		from, to := movePositions(mv)
		s.broadcast(protocol.PlayEcho(msg.Name, from, to))
	}
	if err != nil {
		// Reachable only with an empty hand and an exhausted draw pile.
		s.log.DPanic("bot turn failed", zap.String("bot", msg.Name), zap.Error(err))
	}

	if turn.Won {
		s.finishRound(current)
		return
	}

	current.RefillHand(s.match.DrawPile())
	s.advanceTurn()
}

// ===== queries =====

func (s *Session) handleQueryHand(msg QueryHand) {
	p, ok := s.inProgressSeat(msg.Name)
	if !ok {
		s.sendError(msg.Name, protocol.CodeNotAllowed)
		return
	}
	s.send(msg.Name, protocol.Hand(p.Hand.Cards()))
}

func (s *Session) handleQueryTable(msg QueryTable) {
	if _, ok := s.inProgressSeat(msg.Name); !ok {
		s.sendError(msg.Name, protocol.CodeNotAllowed)
		return
	}
	s.send(msg.Name, s.tableLine())
}

func (s *Session) tableLine() string {
	tops := make([]string, engine.NumBuildingPiles)
	for i, pile := range s.match.BuildingPiles() {
		top, ok := pile.TopCard()
		tops[i] = protocol.TopToken(top, ok)
	}
	players := make([]protocol.PlayerTable, 0, s.match.PlayerCount())
	for _, p := range s.match.Players() {
		discards := make([]string, len(p.Discards))
		for i, d := range p.Discards {
			top, ok := d.Top()
			discards[i] = protocol.TopToken(top, ok)
		}
		players = append(players, protocol.PlayerTable{Name: p.Name, DiscardTops: discards})
	}
	return protocol.Table(tops, players)
}

// ===== helpers =====

// actingPlayer resolves a name to a seated player and enforces phase and
// turn ownership, reporting 205 on failure.
func (s *Session) actingPlayer(name string) (*engine.Player, bool) {
	p, ok := s.inProgressSeat(name)
	if !ok || !s.match.IsPlayerTurn(p) {
		s.sendError(name, protocol.CodeNotAllowed)
		return nil, false
	}
	return p, true
}

func (s *Session) inProgressSeat(name string) (*engine.Player, bool) {
	if s.match == nil || s.match.Phase() != engine.PhaseInProgress {
		return nil, false
	}
	p, seated := s.matchSeats[name]
	return p, seated
}

func (s *Session) sendHand(name string) {
	p, seated := s.matchSeats[name]
	if !seated {
		return
	}
	s.send(name, protocol.Hand(p.Hand.Cards()))
}

func (s *Session) broadcastStock(name string) {
	p, seated := s.matchSeats[name]
	if !seated {
		return
	}
	top, ok := p.Stock.Peek()
	s.broadcast(protocol.Stock(name, protocol.TopToken(top, ok)))
}

// broadcast delivers a line to every human seated in the active match.
func (s *Session) broadcast(line string) {
	for name := range s.matchSeats {
		s.send(name, line)
	}
}

func (s *Session) send(name, line string) {
	s.sendTo(s.outboxes[name], line)
}

func (s *Session) sendError(name, code string) {
	s.send(name, protocol.Error(code))
}

func (s *Session) sendTo(outbox chan<- string, line string) {
	if outbox == nil {
		return // bots and departed players
	}
	select {
	case outbox <- line:
	default:
		s.log.Warn("outbox full, dropping line", zap.String("line", line))
	}
}

func (s *Session) view() View {
	v := View{Target: s.target, Phase: engine.PhaseWaitingForPlayers}
	for _, w := range s.waiting {
		v.Waiting = append(v.Waiting, w.name)
	}
	if s.match != nil {
		v.Phase = s.match.Phase()
		for _, p := range s.match.Players() {
			v.MatchPlayers = append(v.MatchPlayers, p.Name)
		}
		if current, err := s.match.CurrentPlayer(); err == nil {
			v.CurrentPlayer = current.Name
		}
	}
	return v
}

// movePositions converts a validator move to wire positions for PLAY echoes.
func movePositions(mv rules.Move) (protocol.Position, protocol.Position) {
	var from protocol.Position
	switch mv.Source {
	case rules.SourceStock:
		from = protocol.Position{Kind: protocol.PileStock, Index: -1}
	case rules.SourceHand:
		from = protocol.Position{Kind: protocol.PileHand, Index: mv.SourceIndex}
	default:
		from = protocol.Position{Kind: protocol.PileDiscard, Index: mv.SourceIndex}
	}
	return from, protocol.Position{Kind: protocol.PileBuilding, Index: mv.BuildingIndex}
}
