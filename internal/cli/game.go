package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameViewCmd())
	cmd.AddCommand(newGamePlayCmd())
	cmd.AddCommand(newGameDiscardCmd())
	cmd.AddCommand(newGameClueCmd())
	cmd.AddCommand(newGamePingCmd())
	cmd.AddCommand(newGameQuitCmd())
	cmd.AddCommand(newGameDiscardsCmd())
	cmd.AddCommand(newGameDeckCmd())

	return cmd
}

func newGameViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show your view of the current game",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameView

			if err := client.Get("/api/v1/game", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamePlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <slot>",
		Short: "Play the card in the given hand slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid slot: %w", err)
			}

			req := map[string]int{"slot": slot}
			var result GameView

			if err := client.Post("/api/v1/game/play", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameDiscardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discard <slot>",
		Short: "Discard the card in the given hand slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid slot: %w", err)
			}

			req := map[string]int{"slot": slot}
			var result GameView

			if err := client.Post("/api/v1/game/discard", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameClueCmd() *cobra.Command {
	var colorHint string
	var rankHint int

	cmd := &cobra.Command{
		Use:   "clue <player>",
		Short: "Give a clue to another player",
		Long: `Give a color or rank clue to another player.

Exactly one of --color and --rank must be set, and the clue must touch
at least one card in the target's hand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (colorHint == "") == (rankHint == 0) {
				return fmt.Errorf("exactly one of --color and --rank is required")
			}

			req := map[string]any{"target": args[0]}
			if colorHint != "" {
				req["color"] = colorHint
			} else {
				req["rank"] = rankHint
			}

			var result GameView

			if err := client.Post("/api/v1/game/clue", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&colorHint, "color", "", "Color to hint (red, green, white, blue, yellow)")
	cmd.Flags().IntVar(&rankHint, "rank", 0, "Rank to hint (1-5)")

	return cmd
}

func newGamePingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Nudge the active player to take their turn",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/game/ping", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Ping sent")
			return nil
		},
	}
}

func newGameQuitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "Abandon the current game",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/game/quit", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game abandoned")
			return nil
		},
	}
}

func newGameDiscardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discards",
		Short: "Show the discard pile by color",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DiscardsResult

			if err := client.Get("/api/v1/game/discards", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameDeckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deck",
		Short: "Show the remaining deck size",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DeckInfo

			if err := client.Get("/api/v1/game/deck", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
