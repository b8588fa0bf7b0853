package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entanglenet/distill-agent/domain/config"
	"github.com/entanglenet/distill-agent/infrastructure/gameclient"
)

// statusOptions holds options for the read-only server commands.
type statusOptions struct {
	serverURL  string
	playerID   string
	apiToken   string
	jsonOutput bool
}

func (opts *statusOptions) client() *gameclient.Client {
	url := opts.serverURL
	if url == "" {
		url = config.DefaultServerURL
	}
	return gameclient.New(gameclient.Config{
		BaseURL:  url,
		APIToken: opts.apiToken,
		PlayerID: opts.playerID,
	})
}

// newStatusCmd creates the status command.
func (a *App) newStatusCmd() *cobra.Command {
	opts := &statusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the player's budget, score, and holdings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.playerID == "" {
				return fmt.Errorf("player ID is required (--player)")
			}

			client := opts.client()
			status, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				out, err := json.MarshalIndent(status, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, string(out))
				return nil
			}

			fmt.Fprintf(a.stdout, "player %s\n", opts.playerID)
			fmt.Fprintf(a.stdout, "  budget: %d\n", status.Budget)
			fmt.Fprintf(a.stdout, "  score:  %d\n", status.Score)
			fmt.Fprintf(a.stdout, "  nodes:  %d\n", len(status.OwnedNodes))
			fmt.Fprintf(a.stdout, "  edges:  %d\n", len(status.OwnedEdges))
			fmt.Fprintf(a.stdout, "  active: %v\n", status.Active)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.serverURL, "server", "", "Game server URL")
	cmd.Flags().StringVar(&opts.playerID, "player", "", "Player ID")
	cmd.Flags().StringVar(&opts.apiToken, "token", "", "API token")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// newLeaderboardCmd creates the leaderboard command.
func (a *App) newLeaderboardCmd() *cobra.Command {
	opts := &statusOptions{}

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the public leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.client()
			entries, err := client.Leaderboard(cmd.Context())
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				out, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, string(out))
				return nil
			}

			for i, e := range entries {
				name := e.Name
				if name == "" {
					name = e.PlayerID
				}
				fmt.Fprintf(a.stdout, "%3d. %-24s score %5d  nodes %3d\n", i+1, name, e.Score, e.Nodes)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.serverURL, "server", "", "Game server URL")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	return cmd
}
