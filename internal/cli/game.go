package cli

import (
	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameReadyCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameAnswerCmd())
	cmd.AddCommand(newGameClaimCmd())

	return cmd
}

func newGameReadyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Signal that you are ready to play",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/game/ready", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Ready - waiting for the other players")
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Get current game state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Get("/api/v1/game", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameAnswerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer <word>",
		Short: "Submit a word for your turn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"word": args[0]}
			var result AnswerResult

			if err := client.Post("/api/v1/game/answer", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim",
		Short: "Contest the previous player's word",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/game/claim", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Claim recorded")
			return nil
		},
	}
}
