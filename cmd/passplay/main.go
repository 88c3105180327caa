// Command passplay runs a pass-and-play card table in the terminal: one
// device, several players, the screen cleared between turns so nobody sees
// another player's hand.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/virtualdeck/pass-play-be/internal/auth"
	"github.com/virtualdeck/pass-play-be/internal/game"
)

func main() {
	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Pass", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Play", pterm.FgDarkGray.ToStyle()),
	).Render()

	sess, err := setupSession()
	if err != nil {
		pterm.Error.Printfln("Could not start the table: %v", err)
		os.Exit(1)
	}

	cards, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Cards per player (a number, or 'all' to deal everything)").
		WithDefaultValue("7").Show()
	sess.DealCards(parseDealAmount(cards))

	runTable(sess)
}

func setupSession() (*game.Session, error) {
	var players []*game.Player
	for {
		name, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText(fmt.Sprintf("Player %d name (empty when done)", len(players)+1)).Show()
		name = strings.TrimSpace(name)
		if name == "" {
			if len(players) > 0 {
				break
			}
			pterm.Warning.Println("At least one player is needed")
			continue
		}
		color := game.PlayerColors[len(players)%len(game.PlayerColors)]
		players = append(players, game.NewPlayer(name, "person", color))
		pterm.Info.Printfln("Added %s", name)
	}

	preset, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Pick a deck").
		WithOptions([]string{"standard", "jokers", "double", "royals", "numbers"}).Show()
	deckConfig, _ := game.ConfigForPreset(preset)

	freedom, _ := pterm.DefaultInteractiveConfirm.
		WithDefaultText("Freedom mode (anyone may act at any time)?").Show()

	opts := game.SessionOptions{FreedomMode: freedom}
	if guard, _ := pterm.DefaultInteractiveConfirm.
		WithDefaultText("Protect hands with a table passcode?").Show(); guard {
		code, _ := pterm.DefaultInteractiveTextInput.WithMask("*").
			WithDefaultText("Table passcode").Show()
		authenticator, err := auth.NewPasscode(code)
		if err != nil {
			return nil, err
		}
		authenticator.Prompt = promptPasscode
		opts.RequireAuth = true
		opts.Authenticator = authenticator
	}

	return game.NewSession(players, deckConfig, opts)
}

func promptPasscode(ctx context.Context) (string, error) {
	code, err := pterm.DefaultInteractiveTextInput.WithMask("*").
		WithDefaultText("Enter the table passcode").Show()
	return code, err
}

func parseDealAmount(input string) int {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "all" {
		return -1
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 {
		return 7
	}
	return n
}

func runTable(sess *game.Session) {
	for {
		current := sess.CurrentPlayer()
		clearScreen()
		pterm.Info.Printfln("Pass the device to %s", pterm.LightCyan(current.Name))
		if ready, _ := pterm.DefaultInteractiveConfirm.
			WithDefaultText(fmt.Sprintf("%s, ready to see your hand?", current.Name)).
			WithDefaultValue(true).Show(); !ready {
			continue
		}

		if !passGate(sess) {
			continue
		}

		if done := playTurn(sess, current); done {
			return
		}
	}
}

// passGate runs the privacy gate before revealing a hand. Failed attempts
// loop so a typo does not skip the turn.
func passGate(sess *game.Session) bool {
	for {
		granted, err := sess.AuthenticatePlayer(context.Background())
		if err != nil {
			pterm.Error.Printfln("Authentication error: %v", err)
			return false
		}
		if granted {
			return true
		}
		pterm.Error.Println("Wrong passcode")
		if retry, _ := pterm.DefaultInteractiveConfirm.
			WithDefaultText("Try again?").WithDefaultValue(true).Show(); !retry {
			return false
		}
	}
}

func playTurn(sess *game.Session, current game.PlayerState) bool {
	for {
		hand, err := sess.HandOf(current.ID)
		if err != nil {
			pterm.Error.Printfln("%v", err)
			return false
		}
		printTable(sess, current.Name, hand)

		action, _ := pterm.DefaultInteractiveSelect.
			WithDefaultText("Select your next action").
			WithOptions([]string{"play a card", "draw", "sort hand", "score hand (poker)", "reclaim discards", "end turn", "back a turn", "reset game", "quit"}).
			Show()

		switch action {
		case "play a card":
			playCard(sess, current.ID, hand)
		case "draw":
			card, drew, err := sess.DrawToHand(current.ID)
			if err != nil {
				pterm.Error.Printfln("%v", err)
			} else if !drew {
				pterm.Warning.Println("The deck is empty")
			} else {
				pterm.Success.Printfln("Drew %s", styledCard(card))
			}
		case "sort hand":
			sortHand(sess, current.ID)
		case "score hand (poker)":
			if _, desc, err := game.ScorePokerHand(hand); err != nil {
				pterm.Error.Printfln("%v", err)
			} else {
				pterm.Info.Printfln("You are holding: %s", desc)
			}
		case "reclaim discards":
			shuffle, _ := pterm.DefaultInteractiveConfirm.
				WithDefaultText("Shuffle the reclaimed cards?").Show()
			sess.ReclaimDiscards(shuffle)
			pterm.Success.Println("Discard pile returned to the deck")
		case "end turn":
			if err := sess.NextTurn(); err != nil {
				pterm.Error.Printfln("%v", err)
			}
			return false
		case "back a turn":
			if err := sess.PreviousTurn(); err != nil {
				pterm.Error.Printfln("%v", err)
			}
			return false
		case "reset game":
			if confirm, _ := pterm.DefaultInteractiveConfirm.
				WithDefaultText("Collect all cards and reshuffle?").Show(); confirm {
				sess.ResetGame()
				pterm.Success.Println("Table reset")
				return false
			}
		case "quit":
			if confirm, _ := pterm.DefaultInteractiveConfirm.
				WithDefaultText("Leave the table?").Show(); confirm {
				return true
			}
		}
	}
}

func playCard(sess *game.Session, playerID uuid.UUID, hand []game.Card) {
	if len(hand) == 0 {
		pterm.Warning.Println("Your hand is empty")
		return
	}

	labels := make([]string, len(hand))
	for i, c := range hand {
		labels[i] = fmt.Sprintf("%d: %s", i+1, c.DisplayName())
	}
	choice, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Which card?").WithOptions(labels).Show()

	idx := -1
	for i, l := range labels {
		if l == choice {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	played, err := sess.PlayCard(playerID, hand[idx].ID)
	if err != nil {
		pterm.Error.Printfln("%v", err)
		return
	}
	pterm.Success.Printfln("Played %s", styledCard(played))
}

func sortHand(sess *game.Session, playerID uuid.UUID) {
	policy, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Sort by").
		WithOptions([]string{"suit", "rank", "value"}).Show()
	if err := sess.SortPlayerHand(playerID, game.HandSort(policy)); err != nil {
		pterm.Error.Printfln("%v", err)
	}
}

func clearScreen() {
	pterm.Print("\033[H\033[2J")
}
