package game

import (
	"errors"
	"fmt"

	ph "github.com/paulhankin/poker"
)

var ErrJokerNotScorable = errors.New("jokers cannot be scored as poker cards")

// ScorePokerHand evaluates a five-card hand, returning a comparable strength
// (higher beats lower) and a human-readable description like "two pair".
// Used by freedom-mode tables that want a referee without full rule modules.
func ScorePokerHand(hand []Card) (int16, string, error) {
	if len(hand) != 5 {
		return 0, "", fmt.Errorf("poker scoring needs exactly 5 cards, got %d", len(hand))
	}

	var cards [5]ph.Card
	for i, c := range hand {
		pc, err := evalCard(c)
		if err != nil {
			return 0, "", err
		}
		cards[i] = pc
	}

	score := ph.Eval5(&cards)
	desc, err := ph.Describe(cards[:])
	if err != nil {
		return 0, "", err
	}
	return score, desc, nil
}

func evalCard(c Card) (ph.Card, error) {
	var zero ph.Card
	if c.IsJoker() {
		return zero, ErrJokerNotScorable
	}

	var suit ph.Suit
	switch c.Suit {
	case Clubs:
		suit = ph.Suit(0)
	case Diamonds:
		suit = ph.Suit(1)
	case Hearts:
		suit = ph.Suit(2)
	case Spades:
		suit = ph.Suit(3)
	}

	var rank ph.Rank
	switch c.Rank {
	case Ace:
		rank = ph.Rank(1)
	case Jack:
		rank = ph.Rank(11)
	case Queen:
		rank = ph.Rank(12)
	case King:
		rank = ph.Rank(13)
	default:
		rank = ph.Rank(c.Rank.NumericValue())
	}

	pc, err := ph.MakeCard(suit, rank)
	if err != nil {
		return zero, fmt.Errorf("card %s not scorable: %w", c.DisplayName(), err)
	}
	return pc, nil
}
