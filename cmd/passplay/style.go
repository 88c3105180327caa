package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pterm/pterm"

	"github.com/virtualdeck/pass-play-be/internal/game"
)

// styledCard renders one card with its suit color.
func styledCard(c game.Card) string {
	if c.Suit.Color() == "red" {
		return pterm.LightRed(c.DisplayName())
	}
	return pterm.LightWhite(c.DisplayName())
}

func styledHand(hand []game.Card) string {
	if len(hand) == 0 {
		return pterm.Gray("(empty)")
	}
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = styledCard(c)
	}
	return strings.Join(parts, "  ")
}

// printTable draws the other players' boxes, the shared deck status and the
// current player's hand.
func printTable(sess *game.Session, viewerName string, hand []game.Card) {
	state := sess.StateFor(uuid.Nil)

	var others []pterm.Panel
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	for _, p := range state.Players {
		if p.Name == viewerName {
			continue
		}
		faceUp := pterm.Gray("nothing shown")
		if len(p.FaceUpCards) > 0 {
			faceUp = styledHand(p.FaceUpCards)
		}
		others = append(others, pterm.Panel{
			Data: pbox.WithTitle(p.Name).WithTitleTopLeft().
				Sprintf("Cards: %d\nShowing: %s", p.HandCount, faceUp),
		})
	}

	deckInfo := fmt.Sprintf("Deck: %d cards | Discard: %d", state.DeckRemaining, state.DiscardCount)
	if state.TopDiscard != nil {
		deckInfo += " | Top: " + styledCard(*state.TopDiscard)
	}
	board := pterm.Panel{
		Data: pterm.DefaultHeader.WithBackgroundStyle(pterm.BgGreen.ToStyle()).Sprint(deckInfo),
	}

	mine := pterm.Panel{
		Data: pterm.DefaultBox.WithLeftPadding(10).WithRightPadding(10).WithTopPadding(1).WithBottomPadding(1).
			WithTitle(pterm.LightCyan(viewerName)).WithTitleTopLeft().
			Sprintf("Your hand (%d):\n%s", len(hand), styledHand(hand)),
	}

	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		others,
		{board},
		{mine},
	}).Render()
}
