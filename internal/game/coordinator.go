package game

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/virtualdeck/pass-play-be/internal/auth"
)

var (
	ErrNoPlayers     = errors.New("session has no players")
	ErrUnknownPlayer = errors.New("player not in session")
	ErrNotYourTurn   = errors.New("not this player's turn")
	ErrCardNotInHand = errors.New("card not in player's hand")
)

// SessionOptions carries the per-session policies.
type SessionOptions struct {
	// FreedomMode disables rule enforcement: any player may play or draw at
	// any time.
	FreedomMode bool

	// RequireAuth gates hand visibility behind the Authenticator.
	RequireAuth bool

	// Authenticator is the external collaborator consulted by
	// AuthenticatePlayer. May be nil, which reads as no method available.
	Authenticator auth.Authenticator
}

// Session coordinates a pass-and-play game: an ordered roster of players
// sharing one deck, a current-turn pointer, and the privacy gate between
// turns. All mutations are serialized behind one mutex because HTTP handlers
// and the websocket hub share the same instance.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu            sync.Mutex
	players       []*Player
	deck          *Deck
	deckConfig    DeckConfig
	currentIndex  int
	inProgress    bool
	freedomMode   bool
	requireAuth   bool
	authenticator auth.Authenticator
	updatedAt     time.Time
}

// NewSession creates a session owning the players and a freshly shuffled
// deck built from deckConfig.
func NewSession(players []*Player, deckConfig DeckConfig, opts SessionOptions) (*Session, error) {
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}

	deck := NewDeck(deckConfig)
	deck.Shuffle()

	now := time.Now()
	return &Session{
		ID:            uuid.New(),
		CreatedAt:     now,
		updatedAt:     now,
		players:       players,
		deck:          deck,
		deckConfig:    deckConfig,
		freedomMode:   opts.FreedomMode,
		requireAuth:   opts.RequireAuth,
		authenticator: opts.Authenticator,
	}, nil
}

// DealCards clears every hand, deals cardsPerPlayer cards round-robin from
// the shared deck, sorts each hand suit-major, and marks the game in
// progress. A negative cardsPerPlayer deals the whole deck out.
func (s *Session) DealCards(cardsPerPlayer int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.players {
		p.ClearHand()
	}

	if cardsPerPlayer < 0 {
		remaining := s.deck.RemainingCount()
		cardsPerPlayer = (remaining + len(s.players) - 1) / len(s.players)
	}

	hands := s.deck.Deal(len(s.players), cardsPerPlayer)
	for i, hand := range hands {
		s.players[i].AddCards(hand)
	}

	for _, p := range s.players {
		p.SortHand(SortBySuit)
	}

	s.inProgress = true
	s.updatedAt = time.Now()
}

// NextTurn advances the current-player index, wrapping past the end.
func (s *Session) NextTurn() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.players) == 0 {
		return ErrNoPlayers
	}
	s.currentIndex = (s.currentIndex + 1) % len(s.players)
	s.updatedAt = time.Now()
	return nil
}

// PreviousTurn retreats the current-player index, wrapping past the start.
func (s *Session) PreviousTurn() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.players) == 0 {
		return ErrNoPlayers
	}
	s.currentIndex = (s.currentIndex - 1 + len(s.players)) % len(s.players)
	s.updatedAt = time.Now()
	return nil
}

// ResetGame rebuilds the deck from the session's configuration, shuffles it,
// clears all hands, and rewinds the turn pointer.
func (s *Session) ResetGame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deck.Reset(s.deckConfig)
	s.deck.Shuffle()
	for _, p := range s.players {
		p.ClearHand()
	}
	s.currentIndex = 0
	s.inProgress = false
	s.updatedAt = time.Now()
}

// AuthenticatePlayer runs the privacy gate for the player about to view
// their hand. With RequireAuth off it succeeds immediately. An Unavailable
// outcome counts as success so that devices without any authentication
// method never lock their users out. A false return is retryable.
//
// The attempt may block on human interaction; it deliberately runs outside
// the session mutex so a pending gate does not freeze spectator reads.
func (s *Session) AuthenticatePlayer(ctx context.Context) (bool, error) {
	s.mu.Lock()
	required := s.requireAuth
	authenticator := s.authenticator
	s.mu.Unlock()

	if !required {
		return true, nil
	}
	if authenticator == nil {
		return true, nil
	}

	outcome, err := authenticator.Attempt(ctx)
	if err != nil {
		return false, err
	}

	switch outcome {
	case auth.Succeeded, auth.Unavailable:
		return true, nil
	default:
		return false, nil
	}
}

// PlayCard moves a card from the player's hand to the discard pile, face up.
// Outside freedom mode only the current player may play.
func (s *Session) PlayCard(playerID, cardID uuid.UUID) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, player := s.findPlayer(playerID)
	if player == nil {
		return Card{}, ErrUnknownPlayer
	}
	if !s.freedomMode && idx != s.currentIndex {
		return Card{}, ErrNotYourTurn
	}

	card, ok := player.RemoveCardByID(cardID)
	if !ok {
		return Card{}, ErrCardNotInHand
	}

	card.FaceUp = true
	s.deck.Discard(card)
	s.updatedAt = time.Now()
	return card, nil
}

// DrawToHand draws one card from the deck into the player's hand. The bool
// is false when the deck is empty, which is not an error.
func (s *Session) DrawToHand(playerID uuid.UUID) (Card, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, player := s.findPlayer(playerID)
	if player == nil {
		return Card{}, false, ErrUnknownPlayer
	}
	if !s.freedomMode && idx != s.currentIndex {
		return Card{}, false, ErrNotYourTurn
	}

	card, ok := s.deck.Draw()
	if !ok {
		return Card{}, false, nil
	}
	player.AddCard(card)
	s.updatedAt = time.Now()
	return card, true, nil
}

// SortPlayerHand re-sorts one player's hand by the given policy.
func (s *Session) SortPlayerHand(playerID uuid.UUID, policy HandSort) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, player := s.findPlayer(playerID)
	if player == nil {
		return ErrUnknownPlayer
	}
	player.SortHand(policy)
	s.updatedAt = time.Now()
	return nil
}

// ReclaimDiscards returns the discard pile to the bottom of the deck,
// optionally shuffling afterward.
func (s *Session) ReclaimDiscards(shuffle bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deck.ReclaimDiscardPile()
	if shuffle {
		s.deck.Shuffle()
	}
	s.updatedAt = time.Now()
}

func (s *Session) findPlayer(id uuid.UUID) (int, *Player) {
	for i, p := range s.players {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}

// RequireAuth reports whether the privacy gate policy is on.
func (s *Session) RequireAuth() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requireAuth
}

// FreedomMode reports whether rule enforcement is off.
func (s *Session) FreedomMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.freedomMode
}

// GameInProgress reports whether a deal has happened since the last reset.
func (s *Session) GameInProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inProgress
}

// CurrentPlayerIndex returns the index of the player whose turn it is.
func (s *Session) CurrentPlayerIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentIndex
}

// UpdatedAt returns the time of the last mutation.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// PlayerIDs returns the roster's identities in turn order.
func (s *Session) PlayerIDs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]uuid.UUID, len(s.players))
	for i, p := range s.players {
		ids[i] = p.ID
	}
	return ids
}

// PlayerState is a read-only view of one player. Hand is only populated for
// the viewer's own player; everyone else exposes counts and face-up cards.
type PlayerState struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Avatar      string      `json:"avatar"`
	Color       PlayerColor `json:"color"`
	Score       int         `json:"score"`
	HandCount   int         `json:"handCount"`
	Hand        []Card      `json:"hand,omitempty"`
	FaceUpCards []Card      `json:"faceUpCards,omitempty"`
}

// SessionState is the read-only snapshot the presentation layer renders.
type SessionState struct {
	ID                 uuid.UUID     `json:"id"`
	Players            []PlayerState `json:"players"`
	CurrentPlayerIndex int           `json:"currentPlayerIndex"`
	CurrentPlayerID    uuid.UUID     `json:"currentPlayerId"`
	GameInProgress     bool          `json:"gameInProgress"`
	FreedomMode        bool          `json:"freedomMode"`
	RequireAuth        bool          `json:"requireAuth"`
	DeckRemaining      int           `json:"deckRemaining"`
	DiscardCount       int           `json:"discardCount"`
	TopDiscard         *Card         `json:"topDiscard,omitempty"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// StateFor builds a snapshot sanitized for the given viewer. Pass uuid.Nil
// for a spectator view with no hands revealed.
func (s *Session) StateFor(viewerID uuid.UUID) SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SessionState{
		ID:                 s.ID,
		CurrentPlayerIndex: s.currentIndex,
		GameInProgress:     s.inProgress,
		FreedomMode:        s.freedomMode,
		RequireAuth:        s.requireAuth,
		DeckRemaining:      s.deck.RemainingCount(),
		DiscardCount:       s.deck.DiscardCount(),
		UpdatedAt:          s.updatedAt,
	}
	if top, ok := s.deck.TopDiscardCard(); ok {
		state.TopDiscard = &top
	}
	if len(s.players) > 0 {
		state.CurrentPlayerID = s.players[s.currentIndex].ID
	}

	for _, p := range s.players {
		ps := PlayerState{
			ID:        p.ID,
			Name:      p.Name,
			Avatar:    p.Avatar,
			Color:     p.Color,
			Score:     p.Score,
			HandCount: p.HandCount(),
		}
		if p.ID == viewerID {
			ps.Hand = p.Hand()
		} else {
			for _, c := range p.Hand() {
				if c.FaceUp {
					ps.FaceUpCards = append(ps.FaceUpCards, c)
				}
			}
		}
		state.Players = append(state.Players, ps)
	}

	return state
}

// CurrentPlayer returns a sanitized view of the player whose turn it is.
func (s *Session) CurrentPlayer() PlayerState {
	s.mu.Lock()
	p := s.players[s.currentIndex]
	s.mu.Unlock()

	return PlayerState{
		ID:        p.ID,
		Name:      p.Name,
		Avatar:    p.Avatar,
		Color:     p.Color,
		Score:     p.Score,
		HandCount: p.HandCount(),
	}
}

// HandOf returns a copy of the player's full hand. Callers are responsible
// for running the privacy gate first.
func (s *Session) HandOf(playerID uuid.UUID) ([]Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, player := s.findPlayer(playerID)
	if player == nil {
		return nil, ErrUnknownPlayer
	}
	return player.Hand(), nil
}

// Snapshot serializes the full session for persistence.
func (s *Session) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return json.Marshal(struct {
		ID                 uuid.UUID `json:"id"`
		CreatedAt          time.Time `json:"createdAt"`
		UpdatedAt          time.Time `json:"updatedAt"`
		Players            []*Player `json:"players"`
		Deck               *Deck     `json:"deck"`
		CurrentPlayerIndex int       `json:"currentPlayerIndex"`
		GameInProgress     bool      `json:"gameInProgress"`
		FreedomMode        bool      `json:"freedomMode"`
		RequireAuth        bool      `json:"requireAuth"`
	}{
		ID:                 s.ID,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.updatedAt,
		Players:            s.players,
		Deck:               s.deck,
		CurrentPlayerIndex: s.currentIndex,
		GameInProgress:     s.inProgress,
		FreedomMode:        s.freedomMode,
		RequireAuth:        s.requireAuth,
	})
}
