package game

import (
	"encoding/json"
	"math/rand"
	"time"
)

// DeckConfig describes the composition of a deck. CustomCards, when set,
// overrides the generated composition and is kept as a template for Reset.
type DeckConfig struct {
	NumberOfDecks int    `json:"numberOfDecks"`
	IncludeJokers bool   `json:"includeJokers"`
	CustomCards   []Card `json:"customCards,omitempty"`
}

// Deck holds the ordered draw sequence and a separate discard sequence.
// A card is in at most one of the two; cards handed to players live in
// player hands until discarded or the deck is reset.
type Deck struct {
	cards   []Card
	discard []Card
	config  DeckConfig
}

// NewDeck builds an unshuffled, insertion-ordered deck from config.
func NewDeck(config DeckConfig) *Deck {
	d := &Deck{}
	d.Reset(config)
	return d
}

// Standard returns a 52-card deck.
func Standard() *Deck {
	return NewDeck(DeckConfig{NumberOfDecks: 1})
}

// WithJokers returns a 54-card deck (52 + 2 jokers).
func WithJokers() *Deck {
	return NewDeck(DeckConfig{NumberOfDecks: 1, IncludeJokers: true})
}

// DoubleDeck returns two decks plus jokers (108 cards), for games like Canasta.
func DoubleDeck() *Deck {
	return NewDeck(DeckConfig{NumberOfDecks: 2, IncludeJokers: true})
}

// RoyalsOnly returns a 16-card deck of J/Q/K/A in every suit.
func RoyalsOnly() *Deck {
	return NewDeck(royalsConfig())
}

// NumberCardsOnly returns a 36-card deck of 2-10 in every suit.
func NumberCardsOnly() *Deck {
	return NewDeck(numbersConfig())
}

func royalsConfig() DeckConfig {
	var cards []Card
	for _, suit := range standardSuits {
		for _, rank := range []Rank{Jack, Queen, King, Ace} {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return DeckConfig{CustomCards: cards}
}

func numbersConfig() DeckConfig {
	var cards []Card
	for _, suit := range standardSuits {
		for _, rank := range []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten} {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return DeckConfig{CustomCards: cards}
}

// ConfigForPreset maps a preset name to a deck configuration.
func ConfigForPreset(name string) (DeckConfig, bool) {
	switch name {
	case "standard":
		return DeckConfig{NumberOfDecks: 1}, true
	case "jokers":
		return DeckConfig{NumberOfDecks: 1, IncludeJokers: true}, true
	case "double":
		return DeckConfig{NumberOfDecks: 2, IncludeJokers: true}, true
	case "royals":
		return royalsConfig(), true
	case "numbers":
		return numbersConfig(), true
	default:
		return DeckConfig{}, false
	}
}

// Shuffle randomizes the draw sequence in place.
func (d *Deck) Shuffle() {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Fisher-Yates, last index down to 1, j uniform in [0, i]
	for i := len(d.cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the front card of the draw sequence.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DrawN draws up to count cards, stopping early if the deck runs out.
func (d *Deck) DrawN(count int) []Card {
	drawn := []Card{}
	for i := 0; i < count; i++ {
		card, ok := d.Draw()
		if !ok {
			break
		}
		drawn = append(drawn, card)
	}
	return drawn
}

// Deal distributes cards round-robin: one card to each player slot per round,
// cardsPerPlayer rounds. Hands come back partial when the deck runs out.
func (d *Deck) Deal(playerCount, cardsPerPlayer int) [][]Card {
	if playerCount <= 0 {
		return nil
	}

	hands := make([][]Card, playerCount)
	for i := range hands {
		hands[i] = []Card{}
	}

	for round := 0; round < cardsPerPlayer; round++ {
		for player := 0; player < playerCount; player++ {
			card, ok := d.Draw()
			if !ok {
				return hands
			}
			hands[player] = append(hands[player], card)
		}
	}

	return hands
}

// Discard appends a card to the discard sequence. The most recently
// discarded card is the last element.
func (d *Deck) Discard(card Card) {
	d.discard = append(d.discard, card)
}

// Peek returns the front card of the draw sequence without removing it.
func (d *Deck) Peek() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	return d.cards[0], true
}

// ReclaimDiscardPile appends the discard sequence, in its current order, to
// the end of the draw sequence. It does not shuffle; callers wanting a
// randomized pile must shuffle afterward.
func (d *Deck) ReclaimDiscardPile() {
	d.cards = append(d.cards, d.discard...)
	d.discard = nil
}

// Reset clears both sequences and regenerates the draw sequence per config.
// Custom compositions regenerate fresh card identities from the template.
func (d *Deck) Reset(config DeckConfig) {
	d.config = config
	d.discard = nil
	d.cards = nil

	if len(config.CustomCards) > 0 {
		for _, template := range config.CustomCards {
			d.cards = append(d.cards, NewCard(template.Suit, template.Rank))
		}
		return
	}

	decks := config.NumberOfDecks
	if decks <= 0 {
		decks = 1
	}

	for i := 0; i < decks; i++ {
		for _, suit := range standardSuits {
			for _, rank := range standardRanks {
				d.cards = append(d.cards, NewCard(suit, rank))
			}
		}
		if config.IncludeJokers {
			d.cards = append(d.cards, NewJoker(), NewJoker())
		}
	}
}

// Config returns the configuration the deck was last reset with.
func (d *Deck) Config() DeckConfig {
	return d.config
}

// RemainingCount returns the number of cards left to draw.
func (d *Deck) RemainingCount() int {
	return len(d.cards)
}

// DiscardCount returns the number of discarded cards.
func (d *Deck) DiscardCount() int {
	return len(d.discard)
}

// TopDiscardCard returns the most recently discarded card.
func (d *Deck) TopDiscardCard() (Card, bool) {
	if len(d.discard) == 0 {
		return Card{}, false
	}
	return d.discard[len(d.discard)-1], true
}

// Cards returns a copy of the draw sequence.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// DiscardPile returns a copy of the discard sequence.
func (d *Deck) DiscardPile() []Card {
	out := make([]Card, len(d.discard))
	copy(out, d.discard)
	return out
}

type deckJSON struct {
	Cards   []Card     `json:"cards"`
	Discard []Card     `json:"discard"`
	Config  DeckConfig `json:"config"`
}

func (d *Deck) MarshalJSON() ([]byte, error) {
	return json.Marshal(deckJSON{Cards: d.cards, Discard: d.discard, Config: d.config})
}

func (d *Deck) UnmarshalJSON(data []byte) error {
	var raw deckJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.cards = raw.Cards
	d.discard = raw.Discard
	d.config = raw.Config
	return nil
}
