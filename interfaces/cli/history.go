package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entanglenet/distill-agent/infrastructure/storage/badgerstore"
)

// newHistoryCmd creates the history command for inspecting persisted
// session ledgers.
func (a *App) newHistoryCmd() *cobra.Command {
	var (
		storeDir   string
		sessionID  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect persisted session ledgers",
		Long: `List persisted sessions, or dump the ledger of one session when
--session is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := badgerstore.NewSessionStore(badgerstore.DefaultConfig(), badgerstore.WithDir(storeDir))
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			defer func() { _ = store.Close() }()

			if sessionID == "" {
				sessions, err := store.Sessions(cmd.Context())
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					fmt.Fprintln(a.stdout, "no sessions recorded")
					return nil
				}
				for _, s := range sessions {
					fmt.Fprintln(a.stdout, s)
				}
				return nil
			}

			entries, err := store.List(cmd.Context(), sessionID)
			if err != nil {
				return err
			}

			if jsonOutput {
				out, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, string(out))
				return nil
			}

			for _, e := range entries {
				line := fmt.Sprintf("%s  iter %3d  %-18s", e.Timestamp.Format("15:04:05"), e.Iteration, e.Type)
				if e.EdgeID != "" {
					line += "  " + e.EdgeID
				}
				fmt.Fprintln(a.stdout, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storeDir, "store-dir", "./sessions", "Directory of the persistent session ledger")
	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID to dump")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
