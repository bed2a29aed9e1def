package cli

import (
	"github.com/spf13/cobra"
)

func newLobbyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Lobby commands",
	}

	cmd.AddCommand(newLobbyShowCmd())
	cmd.AddCommand(newLobbyJoinCmd())
	cmd.AddCommand(newLobbyLeaveCmd())
	cmd.AddCommand(newLobbyStartCmd())

	return cmd
}

func newLobbyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the waiting queue and active games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Lobby

			if err := client.Get("/api/v1/lobby", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newLobbyJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join",
		Short: "Join the waiting queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Lobby

			if err := client.Post("/api/v1/lobby/join", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newLobbyLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave the waiting queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Lobby

			if err := client.Post("/api/v1/lobby/leave", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Left the lobby")
			return nil
		},
	}
}

func newLobbyStartCmd() *cobra.Command {
	var players int

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a game with the longest-waiting players",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int{}
			if players != 0 {
				req["num_players"] = players
			}
			var result GameStarted

			if err := client.Post("/api/v1/lobby/start", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&players, "players", 0, "Number of players (2-5, default: everyone waiting, up to 5)")

	return cmd
}
