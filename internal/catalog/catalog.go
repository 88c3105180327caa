// Package catalog loads and searches the bundled game-definition records
// used by the library browser. The JSON uses the compact keys of the
// original bundle format (cat, p, dk, dl, rl, win).
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/virtualdeck/pass-play-be/internal/game"
)

type Category string

const (
	Classics    Category = "Classics"
	Party       Category = "Party"
	TrickTaking Category = "Trick-Taking"
	Shedding    Category = "Shedding"
	Matching    Category = "Matching"
	Solitaire   Category = "Solitaire"
	Casino      Category = "Casino"
	Regional    Category = "Regional"
)

type Duration string

const (
	Quick  Duration = "quick"
	Medium Duration = "medium"
	Long   Duration = "long"
)

// PlayerRange is the supported roster size for a game.
type PlayerRange struct {
	Min         int `json:"min"`
	Max         int `json:"max"`
	Recommended int `json:"rec,omitempty"`
}

func (r PlayerRange) String() string {
	if r.Recommended > 0 {
		return fmt.Sprintf("%d-%d players (best: %d)", r.Min, r.Max, r.Recommended)
	}
	return fmt.Sprintf("%d-%d players", r.Min, r.Max)
}

// DeckRequirements describes what deck a game needs.
type DeckRequirements struct {
	NumberOfDecks int    `json:"n"`
	IncludeJokers bool   `json:"j"`
	CustomSubset  string `json:"s,omitempty"` // "royals" or "numbers"
}

// DeckConfig bridges the requirements to a deck configuration.
func (r DeckRequirements) DeckConfig() game.DeckConfig {
	if r.CustomSubset != "" {
		if cfg, ok := game.ConfigForPreset(r.CustomSubset); ok {
			return cfg
		}
	}
	decks := r.NumberOfDecks
	if decks <= 0 {
		decks = 1
	}
	return game.DeckConfig{NumberOfDecks: decks, IncludeJokers: r.IncludeJokers}
}

// DealAmount is either a fixed per-player count or "deal everything".
type DealAmount struct {
	All   bool
	Count int
}

func (a *DealAmount) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		a.Count = n
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil && s == "all" {
		a.All = true
		return nil
	}
	return fmt.Errorf("deal amount must be a number or \"all\", got %s", data)
}

func (a DealAmount) MarshalJSON() ([]byte, error) {
	if a.All {
		return json.Marshal("all")
	}
	return json.Marshal(a.Count)
}

// CardsPerPlayer returns the value to hand to the coordinator's deal
// operation; "all" maps to the deal-everything sentinel.
func (a DealAmount) CardsPerPlayer() int {
	if a.All {
		return -1
	}
	return a.Count
}

// DealPattern describes the opening deal.
type DealPattern struct {
	CardsPerPlayer DealAmount `json:"cpp"`
	CommunalCards  int        `json:"cm,omitempty"`
}

// GameDefinition is one record of the bundled game library.
type GameDefinition struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Aliases          []string         `json:"aliases,omitempty"`
	Category         Category         `json:"cat"`
	PlayerCount      PlayerRange      `json:"p"`
	DeckRequirements DeckRequirements `json:"dk"`
	DealPattern      DealPattern      `json:"dl"`
	RulesSummary     string           `json:"rl"`
	WinCondition     string           `json:"win"`
	Difficulty       int              `json:"difficulty,omitempty"` // 1-5
	Duration         Duration         `json:"duration,omitempty"`
	Tags             []string         `json:"tags,omitempty"`
}

// Library is the loaded, ordered game catalog.
type Library struct {
	games []GameDefinition
	byID  map[string]GameDefinition
}

// Load reads the catalog JSON from path.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading game catalog: %w", err)
	}

	var games []GameDefinition
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("decoding game catalog: %w", err)
	}

	byID := make(map[string]GameDefinition, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}
	return &Library{games: games, byID: byID}, nil
}

// All returns every game in catalog order.
func (l *Library) All() []GameDefinition {
	out := make([]GameDefinition, len(l.games))
	copy(out, l.games)
	return out
}

// ByID looks a game up by its identifier.
func (l *Library) ByID(id string) (GameDefinition, bool) {
	g, ok := l.byID[id]
	return g, ok
}

// InCategory returns the games of one category, in catalog order.
func (l *Library) InCategory(c Category) []GameDefinition {
	var out []GameDefinition
	for _, g := range l.games {
		if g.Category == c {
			out = append(out, g)
		}
	}
	return out
}

// Search matches the query case-insensitively against names and aliases.
func (l *Library) Search(query string) []GameDefinition {
	q := strings.ToLower(query)
	var out []GameDefinition
	for _, g := range l.games {
		if strings.Contains(strings.ToLower(g.Name), q) {
			out = append(out, g)
			continue
		}
		for _, alias := range g.Aliases {
			if strings.Contains(strings.ToLower(alias), q) {
				out = append(out, g)
				break
			}
		}
	}
	return out
}

// Len returns the number of loaded games.
func (l *Library) Len() int {
	return len(l.games)
}
