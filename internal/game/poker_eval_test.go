package game

import (
	"errors"
	"testing"
)

func handOf(specs ...[2]string) []Card {
	suits := map[string]Suit{"s": Spades, "h": Hearts, "d": Diamonds, "c": Clubs}
	var hand []Card
	for _, spec := range specs {
		hand = append(hand, NewCard(suits[spec[1]], Rank(spec[0])))
	}
	return hand
}

func TestScorePokerHandOrdering(t *testing.T) {
	pair := handOf([2]string{"2", "s"}, [2]string{"2", "h"}, [2]string{"5", "d"}, [2]string{"9", "c"}, [2]string{"K", "s"})
	flush := handOf([2]string{"2", "s"}, [2]string{"6", "s"}, [2]string{"9", "s"}, [2]string{"J", "s"}, [2]string{"K", "s"})

	pairScore, _, err := ScorePokerHand(pair)
	if err != nil {
		t.Fatal(err)
	}
	flushScore, desc, err := ScorePokerHand(flush)
	if err != nil {
		t.Fatal(err)
	}

	if flushScore <= pairScore {
		t.Fatalf("flush (%d) must outrank a pair (%d)", flushScore, pairScore)
	}
	if desc == "" {
		t.Fatal("a scored hand must come with a description")
	}
}

func TestScorePokerHandRejectsWrongSize(t *testing.T) {
	if _, _, err := ScorePokerHand(handOf([2]string{"2", "s"})); err == nil {
		t.Fatal("scoring needs exactly five cards")
	}
}

func TestScorePokerHandRejectsJokers(t *testing.T) {
	hand := handOf([2]string{"2", "s"}, [2]string{"3", "s"}, [2]string{"4", "s"}, [2]string{"5", "s"})
	hand = append(hand, NewJoker())

	_, _, err := ScorePokerHand(hand)
	if !errors.Is(err, ErrJokerNotScorable) {
		t.Fatalf("err = %v, want ErrJokerNotScorable", err)
	}
}
