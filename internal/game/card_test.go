package game

import "testing"

func TestCardIdentityEquality(t *testing.T) {
	a := NewCard(Hearts, Queen)
	b := NewCard(Hearts, Queen)

	if a.Equal(b) {
		t.Fatal("two cards of the same suit and rank must not be equal")
	}
	if !a.Equal(a) {
		t.Fatal("a card must equal itself")
	}
}

func TestSortValueOrdering(t *testing.T) {
	twoOfSpades := NewCard(Spades, Two)
	aceOfSpades := NewCard(Spades, Ace)
	twoOfHearts := NewCard(Hearts, Two)
	joker := NewJoker()

	if twoOfSpades.SortValue() >= aceOfSpades.SortValue() {
		t.Fatal("within a suit, lower ranks must sort first")
	}
	if aceOfSpades.SortValue() >= twoOfHearts.SortValue() {
		t.Fatal("suit is the major sort key")
	}
	if twoOfHearts.SortValue() >= joker.SortValue() {
		t.Fatal("jokers sort last")
	}
}

func TestBlackjackValue(t *testing.T) {
	tests := []struct {
		rank Rank
		want int
	}{
		{Two, 2},
		{Nine, 9},
		{Ten, 10},
		{Jack, 10},
		{Queen, 10},
		{King, 10},
		{Ace, 11},
		{JokerRank, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.rank), func(t *testing.T) {
			suit := Spades
			if tt.rank == JokerRank {
				suit = JokerSuit
			}
			c := NewCard(suit, tt.rank)
			if got := c.BlackjackValue(); got != tt.want {
				t.Errorf("BlackjackValue(%s) = %d, want %d", tt.rank, got, tt.want)
			}
		})
	}
}

func TestPokerValue(t *testing.T) {
	tests := []struct {
		rank Rank
		want int
	}{
		{Two, 2},
		{Ten, 10},
		{Jack, 11},
		{Queen, 12},
		{King, 13},
		{Ace, 14},
	}

	for _, tt := range tests {
		c := NewCard(Clubs, tt.rank)
		if got := c.PokerValue(); got != tt.want {
			t.Errorf("PokerValue(%s) = %d, want %d", tt.rank, got, tt.want)
		}
	}
}

func TestBlackjackScoreAceDemotion(t *testing.T) {
	// A + 9 = soft 20
	hand := []Card{NewCard(Spades, Ace), NewCard(Hearts, Nine)}
	if got := BlackjackScore(hand); got != 20 {
		t.Fatalf("soft 20 scored %d", got)
	}

	// A + 9 + 5: the ace demotes to 1
	hand = append(hand, NewCard(Clubs, Five))
	if got := BlackjackScore(hand); got != 15 {
		t.Fatalf("hard 15 scored %d", got)
	}

	// A + A + 9: one ace demotes
	hand = []Card{NewCard(Spades, Ace), NewCard(Hearts, Ace), NewCard(Clubs, Nine)}
	if got := BlackjackScore(hand); got != 21 {
		t.Fatalf("A-A-9 scored %d, want 21", got)
	}
}

func TestDisplayName(t *testing.T) {
	if got := NewCard(Hearts, Queen).DisplayName(); got != "Q♥" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := NewJoker().DisplayName(); got != "🃏 Joker" {
		t.Errorf("joker DisplayName = %q", got)
	}
}
