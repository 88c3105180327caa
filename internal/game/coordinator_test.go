package game

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/virtualdeck/pass-play-be/internal/auth"
)

func newTestSession(t *testing.T, playerCount int, opts SessionOptions) *Session {
	t.Helper()

	players := make([]*Player, playerCount)
	names := []string{"Alice", "Bob", "Carol", "Dave", "Eve", "Frank"}
	for i := range players {
		players[i] = NewPlayer(names[i%len(names)], "", "")
	}

	s, err := NewSession(players, DeckConfig{NumberOfDecks: 1}, opts)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSessionRequiresPlayers(t *testing.T) {
	if _, err := NewSession(nil, DeckConfig{NumberOfDecks: 1}, SessionOptions{}); !errors.Is(err, ErrNoPlayers) {
		t.Fatalf("err = %v, want ErrNoPlayers", err)
	}
}

func TestDealCards(t *testing.T) {
	s := newTestSession(t, 4, SessionOptions{})
	s.DealCards(7)

	if !s.GameInProgress() {
		t.Fatal("deal must mark the game in progress")
	}

	state := s.StateFor(uuid.Nil)
	if state.DeckRemaining != 24 {
		t.Fatalf("DeckRemaining = %d, want 24", state.DeckRemaining)
	}
	for _, p := range state.Players {
		if p.HandCount != 7 {
			t.Fatalf("%s has %d cards, want 7", p.Name, p.HandCount)
		}
	}

	// hands come back sorted suit-major
	for _, id := range s.PlayerIDs() {
		hand, err := s.HandOf(id)
		if err != nil {
			t.Fatal(err)
		}
		for i := 1; i < len(hand); i++ {
			if hand[i-1].SortValue() > hand[i].SortValue() {
				t.Fatal("dealt hands must be sorted suit-major")
			}
		}
	}
}

func TestDealCardsIsNotCumulative(t *testing.T) {
	s := newTestSession(t, 2, SessionOptions{})
	s.DealCards(5)
	s.DealCards(5)

	for _, id := range s.PlayerIDs() {
		hand, _ := s.HandOf(id)
		if len(hand) != 5 {
			t.Fatalf("re-deal left a hand of %d cards, want 5", len(hand))
		}
	}
	if got := s.StateFor(uuid.Nil).DeckRemaining; got != 32 {
		t.Fatalf("DeckRemaining = %d, want 32 (52 - 2*10)", got)
	}
}

func TestDealAllDistributesWholeDeck(t *testing.T) {
	s := newTestSession(t, 3, SessionOptions{})
	s.DealCards(-1)

	if got := s.StateFor(uuid.Nil).DeckRemaining; got != 0 {
		t.Fatalf("DeckRemaining = %d after dealing all", got)
	}
	total := 0
	for _, id := range s.PlayerIDs() {
		hand, _ := s.HandOf(id)
		total += len(hand)
	}
	if total != 52 {
		t.Fatalf("dealt %d cards in total, want 52", total)
	}
}

func TestTurnWraparound(t *testing.T) {
	const n = 4
	s := newTestSession(t, n, SessionOptions{})

	start := s.CurrentPlayerIndex()
	for i := 0; i < n; i++ {
		if err := s.NextTurn(); err != nil {
			t.Fatal(err)
		}
	}
	if s.CurrentPlayerIndex() != start {
		t.Fatal("n calls to NextTurn must return to the starting index")
	}

	if err := s.PreviousTurn(); err != nil {
		t.Fatal(err)
	}
	if s.CurrentPlayerIndex() != n-1 {
		t.Fatalf("PreviousTurn from 0 landed on %d, want %d", s.CurrentPlayerIndex(), n-1)
	}
}

func TestResetGame(t *testing.T) {
	s := newTestSession(t, 3, SessionOptions{})
	s.DealCards(5)
	s.NextTurn()

	s.ResetGame()

	if s.GameInProgress() {
		t.Fatal("reset must clear the in-progress flag")
	}
	if s.CurrentPlayerIndex() != 0 {
		t.Fatal("reset must rewind the turn pointer")
	}
	state := s.StateFor(uuid.Nil)
	if state.DeckRemaining != 52 {
		t.Fatalf("DeckRemaining = %d after reset, want 52", state.DeckRemaining)
	}
	for _, p := range state.Players {
		if p.HandCount != 0 {
			t.Fatal("reset must clear all hands")
		}
	}
}

func TestAuthenticateGateOff(t *testing.T) {
	s := newTestSession(t, 2, SessionOptions{
		RequireAuth: false,
		Authenticator: auth.AuthenticatorFunc(func(ctx context.Context) (auth.Outcome, error) {
			t.Fatal("collaborator must not be consulted when the gate is off")
			return auth.Failed, nil
		}),
	})

	ok, err := s.AuthenticatePlayer(context.Background())
	if err != nil || !ok {
		t.Fatalf("AuthenticatePlayer = %v, %v", ok, err)
	}
}

func TestAuthenticateFailOpenOnUnavailable(t *testing.T) {
	s := newTestSession(t, 2, SessionOptions{
		RequireAuth: true,
		Authenticator: auth.AuthenticatorFunc(func(ctx context.Context) (auth.Outcome, error) {
			return auth.Unavailable, nil
		}),
	})

	ok, err := s.AuthenticatePlayer(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("an unavailable collaborator must fail open")
	}
}

func TestAuthenticateFailureIsRetryable(t *testing.T) {
	attempts := 0
	s := newTestSession(t, 2, SessionOptions{
		RequireAuth: true,
		Authenticator: auth.AuthenticatorFunc(func(ctx context.Context) (auth.Outcome, error) {
			attempts++
			if attempts < 2 {
				return auth.Failed, nil
			}
			return auth.Succeeded, nil
		}),
	})

	ok, err := s.AuthenticatePlayer(context.Background())
	if err != nil || ok {
		t.Fatalf("first attempt = %v, %v; want failure", ok, err)
	}

	ok, err = s.AuthenticatePlayer(context.Background())
	if err != nil || !ok {
		t.Fatalf("retry = %v, %v; want success", ok, err)
	}
}

func TestPlayCardTurnEnforcement(t *testing.T) {
	s := newTestSession(t, 2, SessionOptions{})
	s.DealCards(3)

	ids := s.PlayerIDs()
	current, other := ids[0], ids[1]

	otherHand, _ := s.HandOf(other)
	if _, err := s.PlayCard(other, otherHand[0].ID); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}

	hand, _ := s.HandOf(current)
	played, err := s.PlayCard(current, hand[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if !played.FaceUp {
		t.Fatal("played cards go to the discard pile face up")
	}

	state := s.StateFor(uuid.Nil)
	if state.DiscardCount != 1 || state.TopDiscard == nil || !state.TopDiscard.Equal(played) {
		t.Fatal("played card must be the top of the discard pile")
	}

	if _, err := s.PlayCard(current, hand[0].ID); !errors.Is(err, ErrCardNotInHand) {
		t.Fatalf("replaying a played card: err = %v, want ErrCardNotInHand", err)
	}
	if _, err := s.PlayCard(uuid.New(), hand[0].ID); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("unknown player: err = %v, want ErrUnknownPlayer", err)
	}
}

func TestFreedomModeSkipsTurnCheck(t *testing.T) {
	s := newTestSession(t, 2, SessionOptions{FreedomMode: true})
	s.DealCards(3)

	other := s.PlayerIDs()[1]
	hand, _ := s.HandOf(other)
	if _, err := s.PlayCard(other, hand[0].ID); err != nil {
		t.Fatalf("freedom mode must allow out-of-turn plays: %v", err)
	}
}

func TestDrawToHandEmptyDeck(t *testing.T) {
	s := newTestSession(t, 2, SessionOptions{FreedomMode: true})
	s.DealCards(26) // exhausts the deck

	_, drew, err := s.DrawToHand(s.PlayerIDs()[0])
	if err != nil {
		t.Fatal(err)
	}
	if drew {
		t.Fatal("drawing from an empty deck must report absence, not a card")
	}
}

// Conservation: draw + discard + hands always equals the initial 52.
func TestCardConservation(t *testing.T) {
	s := newTestSession(t, 4, SessionOptions{FreedomMode: true})

	check := func(stage string) {
		state := s.StateFor(uuid.Nil)
		total := state.DeckRemaining + state.DiscardCount
		for _, id := range s.PlayerIDs() {
			hand, _ := s.HandOf(id)
			total += len(hand)
		}
		if total != 52 {
			t.Fatalf("%s: %d cards accounted for, want 52", stage, total)
		}
	}

	check("initial")
	s.DealCards(7)
	check("after deal")

	id := s.PlayerIDs()[2]
	hand, _ := s.HandOf(id)
	if _, err := s.PlayCard(id, hand[0].ID); err != nil {
		t.Fatal(err)
	}
	check("after play")

	if _, _, err := s.DrawToHand(id); err != nil {
		t.Fatal(err)
	}
	check("after draw")

	s.ReclaimDiscards(true)
	check("after reclaim")
}

func TestStateSanitization(t *testing.T) {
	s := newTestSession(t, 2, SessionOptions{})
	s.DealCards(5)

	ids := s.PlayerIDs()
	state := s.StateFor(ids[0])

	for _, p := range state.Players {
		if p.ID == ids[0] {
			if len(p.Hand) != 5 {
				t.Fatal("viewer must see their own hand")
			}
		} else {
			if len(p.Hand) != 0 {
				t.Fatal("other hands must not be revealed")
			}
			if p.HandCount != 5 {
				t.Fatal("other hands still expose their size")
			}
		}
	}
}
