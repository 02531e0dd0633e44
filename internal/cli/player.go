package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerSignUpCmd())
	cmd.AddCommand(newPlayerSignInCmd())
	cmd.AddCommand(newPlayerMeCmd())
	cmd.AddCommand(newPlayerUpdateCmd())
	cmd.AddCommand(newPlayerGetCmd())

	return cmd
}

func newPlayerSignUpCmd() *cobra.Command {
	var name, token string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new player account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": name}
			if token != "" {
				req["token"] = token
			}
			var result SignUpResult

			if err := client.Post("/api/v1/players", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	cmd.Flags().StringVar(&token, "token", "", "Credential token (generated if omitted)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlayerSignInCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with an existing token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = cfg.Token
			}
			if token == "" {
				return fmt.Errorf("--token is required (no saved token found)")
			}

			req := map[string]string{"token": token}
			var result Player

			if err := client.Post("/api/v1/players/signin", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Credential token (default: saved token)")

	return cmd
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show current player info",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if err := client.Get("/api/v1/players/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerUpdateCmd() *cobra.Command {
	var name string
	var rating int

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update current player profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"name":   name,
				"rating": rating,
			}
			var result Player

			if err := client.Patch("/api/v1/players/me", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New player name (required)")
	cmd.Flags().IntVar(&rating, "rating", 0, "New rating (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("rating")

	return cmd
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Look up a player by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if err := client.Get(fmt.Sprintf("/api/v1/players/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
