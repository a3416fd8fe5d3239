package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/crowdsnake/internal/model"
)

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Print the current board",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := client.GetText(cmd.Context(), "/snake")
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(BoardResult{Board: board})
			return nil
		},
	}
}

func newVoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "vote <direction>",
		Short:     "Vote for the snake's next heading",
		Long:      "Vote for up, down, left or right. Votes count towards the next tick only.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "left", "right"},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := model.ParseDirection(args[0])
			if err != nil {
				return err
			}

			var result VoteResult
			if err := client.PostJSON(cmd.Context(), "/api/v1/votes", map[string]string{"direction": d.String()}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the board with tick, heading, length and pending votes",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result StateResult
			if err := client.GetJSON(cmd.Context(), "/api/v1/state", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent ticks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/history"
			if limit != 0 {
				if limit < 0 {
					return fmt.Errorf("--limit must be positive, got %d", limit)
				}
				path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
			}

			var result HistoryResult
			if err := client.GetJSON(cmd.Context(), path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of ticks to show (server default 20)")

	return cmd
}
