package game

import "github.com/google/uuid"

type Suit string
type Rank string

const (
	Spades    Suit = "Spades"
	Hearts    Suit = "Hearts"
	Diamonds  Suit = "Diamonds"
	Clubs     Suit = "Clubs"
	JokerSuit Suit = "Joker"
)

const (
	Two       Rank = "2"
	Three     Rank = "3"
	Four      Rank = "4"
	Five      Rank = "5"
	Six       Rank = "6"
	Seven     Rank = "7"
	Eight     Rank = "8"
	Nine      Rank = "9"
	Ten       Rank = "10"
	Jack      Rank = "J"
	Queen     Rank = "Q"
	King      Rank = "K"
	Ace       Rank = "A"
	JokerRank Rank = "Joker"
)

// suitOrder and rankOrder define the canonical order behind SortValue.
var suitOrder = []Suit{Spades, Hearts, Diamonds, Clubs, JokerSuit}
var rankOrder = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace, JokerRank}

// standardSuits and standardRanks drive deck generation, in insertion order.
var standardSuits = []Suit{Spades, Hearts, Diamonds, Clubs}
var standardRanks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// Symbol returns the suit glyph used for display.
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "🃏"
	}
}

// Color classifies the suit for presentation purposes.
func (s Suit) Color() string {
	switch s {
	case Hearts, Diamonds:
		return "red"
	case JokerSuit:
		return "purple"
	default:
		return "black"
	}
}

// NumericValue returns the blackjack value of the rank. Aces report 11;
// soft/hard resolution is the caller's job (see BlackjackScore).
func (r Rank) NumericValue() int {
	switch r {
	case Two:
		return 2
	case Three:
		return 3
	case Four:
		return 4
	case Five:
		return 5
	case Six:
		return 6
	case Seven:
		return 7
	case Eight:
		return 8
	case Nine:
		return 9
	case Ten, Jack, Queen, King:
		return 10
	case Ace:
		return 11
	default:
		return 0
	}
}

// Card is a single playing card. Identity is fixed at creation and equality
// is identity-based, so two queens of hearts from a double deck stay distinct.
type Card struct {
	ID        uuid.UUID `json:"id"`
	Suit      Suit      `json:"suit"`
	Rank      Rank      `json:"rank"`
	FaceUp    bool      `json:"faceUp"`
	PositionX float64   `json:"positionX,omitempty"`
	PositionY float64   `json:"positionY,omitempty"`
}

// NewCard creates a face-down card with a fresh identity.
func NewCard(suit Suit, rank Rank) Card {
	return Card{
		ID:   uuid.New(),
		Suit: suit,
		Rank: rank,
	}
}

// NewJoker creates a joker card.
func NewJoker() Card {
	return NewCard(JokerSuit, JokerRank)
}

// Equal reports whether both cards are the same physical card.
func (c Card) Equal(other Card) bool {
	return c.ID == other.ID
}

// IsJoker reports whether the card is a joker.
func (c Card) IsJoker() bool {
	return c.Suit == JokerSuit
}

// DisplayName renders the card for UIs, e.g. "Q♥".
func (c Card) DisplayName() string {
	if c.IsJoker() {
		return "🃏 Joker"
	}
	return string(c.Rank) + c.Suit.Symbol()
}

// SortValue returns a total-order key for suit-major hand sorting:
// suit index * 100 + rank index.
func (c Card) SortValue() int {
	suitValue := 0
	for i, s := range suitOrder {
		if s == c.Suit {
			suitValue = i
			break
		}
	}
	rankValue := 0
	for i, r := range rankOrder {
		if r == c.Rank {
			rankValue = i
			break
		}
	}
	return suitValue*100 + rankValue
}

// BlackjackValue returns the card's blackjack value (ace as 11, jokers 0).
func (c Card) BlackjackValue() int {
	return c.Rank.NumericValue()
}

// PokerValue returns the card's ace-high comparison value (2-14, jokers 0).
func (c Card) PokerValue() int {
	switch c.Rank {
	case Ace:
		return 14
	case King:
		return 13
	case Queen:
		return 12
	case Jack:
		return 11
	default:
		return c.Rank.NumericValue()
	}
}

// BlackjackScore scores a whole hand, demoting aces from 11 to 1 while the
// total would bust.
func BlackjackScore(hand []Card) int {
	score := 0
	aces := 0

	for _, card := range hand {
		if card.Rank == Ace {
			aces++
		}
		score += card.BlackjackValue()
	}

	for aces > 0 && score > 21 {
		score -= 10
		aces--
	}

	return score
}
