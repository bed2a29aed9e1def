package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Lobby:
		o.printLobby(v)
	case GameStarted:
		o.printGameStarted(v)
	case GameView:
		o.printGameView(v)
	case DiscardsResult:
		o.printDiscards(v)
	case DeckInfo:
		o.printDeckInfo(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// Lobby response type
type Lobby struct {
	Waiting []string          `json:"waiting"`
	Seated  map[string]string `json:"seated"`
}

// GameStarted response type
type GameStarted struct {
	GameID  string   `json:"game_id"`
	Players []string `json:"players"`
	First   string   `json:"first"`
}

// Card response type
type Card struct {
	Color string `json:"color"`
	Rank  int    `json:"rank"`
}

// Known is what a player has deduced about one of their cards
type Known struct {
	Color          *string  `json:"color,omitempty"`
	Rank           *int     `json:"rank,omitempty"`
	PossibleColors []string `json:"possible_colors"`
	PossibleRanks  []int    `json:"possible_ranks"`
	Exact          bool     `json:"exact"`
}

// VisibleHand is another player's hand with their knowledge of it
type VisibleHand struct {
	Player string  `json:"player"`
	Cards  []Card  `json:"cards"`
	Known  []Known `json:"known"`
}

// GameView response type
type GameView struct {
	GameID    string           `json:"game_id"`
	Observer  string           `json:"observer"`
	Status    string           `json:"status"`
	Players   []string         `json:"players"`
	Active    string           `json:"active"`
	Clues     int              `json:"clues"`
	Bombs     int              `json:"bombs"`
	DeckCount int              `json:"deck_count"`
	FinalLap  bool             `json:"final_lap"`
	Stacks    map[string]int   `json:"stacks"`
	Discards  map[string][]int `json:"discards"`
	Score     int              `json:"score"`
	OwnHand   []Known          `json:"own_hand"`
	Others    []VisibleHand    `json:"others"`
}

// DiscardsResult response type
type DiscardsResult struct {
	ByColor map[string][]int `json:"by_color"`
}

// DeckInfo response type
type DeckInfo struct {
	Remaining int  `json:"remaining"`
	FinalLap  bool `json:"final_lap"`
	TurnsLeft *int `json:"turns_left,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// stackOrder fixes the display order of the five suits
var stackOrder = []string{"red", "green", "white", "blue", "yellow"}

var suitColors = map[string]*color.Color{
	"red":    color.New(color.FgRed),
	"green":  color.New(color.FgGreen),
	"white":  color.New(color.FgHiWhite),
	"blue":   color.New(color.FgBlue),
	"yellow": color.New(color.FgYellow),
}

// paintCard renders a card as a colored "r3"-style token
func paintCard(suit string, rank int) string {
	label := "?"
	if suit != "" {
		label = suit[:1]
	}
	text := label + "?"
	if rank > 0 {
		text = fmt.Sprintf("%s%d", label, rank)
	}
	if c, ok := suitColors[suit]; ok {
		return c.Sprint(text)
	}
	return text
}

func paintKnown(k Known) string {
	suit := ""
	if k.Color != nil {
		suit = *k.Color
	}
	rank := 0
	if k.Rank != nil {
		rank = *k.Rank
	}
	if suit == "" && rank == 0 {
		return "??"
	}
	return paintCard(suit, rank)
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printLobby(l Lobby) {
	fmt.Printf("Waiting (%d):\n", len(l.Waiting))
	for i, p := range l.Waiting {
		fmt.Printf("  %d. %s\n", i+1, p)
	}
	if len(l.Seated) > 0 {
		fmt.Printf("In games (%d):\n", len(l.Seated))
		for p, g := range l.Seated {
			fmt.Printf("  - %s -> %s\n", p, g)
		}
	}
}

func (o *Output) printGameStarted(g GameStarted) {
	fmt.Printf("Game: %s\n", g.GameID)
	fmt.Printf("Seats: %s\n", strings.Join(g.Players, ", "))
	fmt.Printf("First to move: %s\n", g.First)
}

func (o *Output) printGameView(g GameView) {
	fmt.Printf("Game: %s (%s)\n", g.GameID, g.Status)
	fmt.Printf("Turn: %s\n", g.Active)
	fmt.Printf("Clues: %d  Bombs: %d  Deck: %d  Score: %d\n", g.Clues, g.Bombs, g.DeckCount, g.Score)
	if g.FinalLap {
		fmt.Println("Final lap!")
	}

	stacks := make([]string, 0, len(stackOrder))
	for _, suit := range stackOrder {
		stacks = append(stacks, paintCard(suit, g.Stacks[suit]))
	}
	fmt.Printf("Stacks: %s\n", strings.Join(stacks, " "))

	fmt.Println("\nYour hand:")
	for i, k := range g.OwnHand {
		fmt.Printf("  %d: %s\n", i+1, paintKnown(k))
	}

	for _, other := range g.Others {
		cards := make([]string, len(other.Cards))
		for i, c := range other.Cards {
			token := paintCard(c.Color, c.Rank)
			if other.Known[i].Color != nil || other.Known[i].Rank != nil {
				token += "*"
			}
			cards[i] = token
		}
		fmt.Printf("\n%s: %s\n", other.Player, strings.Join(cards, " "))
	}
}

func (o *Output) printDiscards(d DiscardsResult) {
	fmt.Println("Discards:")
	for _, suit := range stackOrder {
		ranks := d.ByColor[suit]
		if len(ranks) == 0 {
			continue
		}
		tokens := make([]string, len(ranks))
		for i, r := range ranks {
			tokens[i] = paintCard(suit, r)
		}
		fmt.Printf("  %s: %s\n", suit, strings.Join(tokens, " "))
	}
}

func (o *Output) printDeckInfo(d DeckInfo) {
	fmt.Printf("Cards remaining: %d\n", d.Remaining)
	if d.FinalLap && d.TurnsLeft != nil {
		fmt.Printf("Final lap: %d turns left\n", *d.TurnsLeft)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
