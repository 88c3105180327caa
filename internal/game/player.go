package game

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
)

type PlayerColor string

const (
	ColorRed    PlayerColor = "red"
	ColorBlue   PlayerColor = "blue"
	ColorGreen  PlayerColor = "green"
	ColorYellow PlayerColor = "yellow"
	ColorPurple PlayerColor = "purple"
	ColorOrange PlayerColor = "orange"
	ColorPink   PlayerColor = "pink"
	ColorTeal   PlayerColor = "teal"
)

// PlayerColors lists the selectable colors in presentation order.
var PlayerColors = []PlayerColor{
	ColorRed, ColorBlue, ColorGreen, ColorYellow,
	ColorPurple, ColorOrange, ColorPink, ColorTeal,
}

// HandSort selects a hand sorting policy.
type HandSort string

const (
	SortBySuit  HandSort = "suit"  // suit index, then rank index
	SortByRank  HandSort = "rank"  // blackjack numeric value
	SortByValue HandSort = "value" // poker value, ace high
)

// Player owns an ordered hand of cards. Hand mutation goes through methods;
// Hand() hands out copies so callers cannot alias the backing slice.
type Player struct {
	ID     uuid.UUID
	Name   string
	Avatar string
	Color  PlayerColor
	Score  int

	hand []Card
}

// NewPlayer creates a player with an empty hand.
func NewPlayer(name, avatar string, color PlayerColor) *Player {
	if avatar == "" {
		avatar = "person"
	}
	if color == "" {
		color = ColorBlue
	}
	return &Player{
		ID:     uuid.New(),
		Name:   name,
		Avatar: avatar,
		Color:  color,
		hand:   []Card{},
	}
}

// AddCard appends a card to the hand.
func (p *Player) AddCard(card Card) {
	p.hand = append(p.hand, card)
}

// AddCards appends cards to the hand in the given order.
func (p *Player) AddCards(cards []Card) {
	p.hand = append(p.hand, cards...)
}

// RemoveCard removes the card with the same identity from the hand.
func (p *Player) RemoveCard(card Card) (Card, bool) {
	return p.RemoveCardByID(card.ID)
}

// RemoveCardByID removes a card from the hand by identity.
func (p *Player) RemoveCardByID(id uuid.UUID) (Card, bool) {
	for i, c := range p.hand {
		if c.ID == id {
			p.hand = append(p.hand[:i], p.hand[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}

// CardByID returns the hand card with the given identity, if present.
func (p *Player) CardByID(id uuid.UUID) (Card, bool) {
	for _, c := range p.hand {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// ClearHand empties the hand.
func (p *Player) ClearHand() {
	p.hand = []Card{}
}

// SortHand orders the hand by the given policy. Ties keep their relative
// input order.
func (p *Player) SortHand(policy HandSort) {
	switch policy {
	case SortByRank:
		sort.SliceStable(p.hand, func(i, j int) bool {
			return p.hand[i].BlackjackValue() < p.hand[j].BlackjackValue()
		})
	case SortByValue:
		sort.SliceStable(p.hand, func(i, j int) bool {
			return p.hand[i].PokerValue() < p.hand[j].PokerValue()
		})
	default:
		sort.SliceStable(p.hand, func(i, j int) bool {
			return p.hand[i].SortValue() < p.hand[j].SortValue()
		})
	}
}

// Hand returns a copy of the hand in its current order.
func (p *Player) Hand() []Card {
	out := make([]Card, len(p.hand))
	copy(out, p.hand)
	return out
}

// HandCount returns the number of cards in the hand.
func (p *Player) HandCount() int {
	return len(p.hand)
}

// IsEmpty reports whether the hand is empty.
func (p *Player) IsEmpty() bool {
	return len(p.hand) == 0
}

type playerJSON struct {
	ID     uuid.UUID   `json:"id"`
	Name   string      `json:"name"`
	Avatar string      `json:"avatar"`
	Color  PlayerColor `json:"color"`
	Score  int         `json:"score"`
	Hand   []Card      `json:"hand"`
}

func (p *Player) MarshalJSON() ([]byte, error) {
	return json.Marshal(playerJSON{
		ID:     p.ID,
		Name:   p.Name,
		Avatar: p.Avatar,
		Color:  p.Color,
		Score:  p.Score,
		Hand:   p.hand,
	})
}

func (p *Player) UnmarshalJSON(data []byte) error {
	var raw playerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.ID = raw.ID
	p.Name = raw.Name
	p.Avatar = raw.Avatar
	p.Color = raw.Color
	p.Score = raw.Score
	p.hand = raw.Hand
	return nil
}
