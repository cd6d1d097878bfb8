package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bggdog/sanctum-video-review/internal/board"
	"github.com/bggdog/sanctum-video-review/internal/review"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show videos grouped into workflow columns",
	RunE: func(cmd *cobra.Command, _ []string) error {
		resp, err := newClient().Board(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), resp)
			return nil
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderBoard(resp))
		return nil
	},
}

var (
	moveLive     bool
	moveRollback string
)

var moveCmd = &cobra.Command{
	Use:   "move <video> <status>",
	Short: "Move a video to another workflow column",
	Long: `Move a video to another workflow column.

<video> is a video ID or a title; titles are matched fuzzily and must be
unambiguous. <status> is a status value or column title, e.g. "ready for review".

By default the move runs through a local board that applies it immediately and
rolls it back if the server rejects it. --live hands the move to the server's
board instead, so every client following 'sanctum events --follow' sees it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := parseStatusArg(args[1])
		if err != nil {
			return err
		}
		c := newClient()
		if moveLive {
			return moveOnServer(cmd, c, args[0], status)
		}
		return moveLocally(cmd, c, args[0], status)
	},
}

func init() {
	moveCmd.Flags().BoolVar(&moveLive, "live", false, "Move through the server's live board")
	moveCmd.Flags().StringVar(&moveRollback, "rollback", string(board.RollbackVideo), "Rollback policy on failure (video, snapshot)")

	rootCmd.AddCommand(boardCmd, moveCmd)
}

// errMoveRolledBack reports a move the server rejected after it was applied.
var errMoveRolledBack = errors.New("move rolled back")

func moveLocally(cmd *cobra.Command, c *Client, arg string, status review.Status) error {
	policy := board.RollbackPolicy(moveRollback)
	if !policy.Valid() {
		return fmt.Errorf("invalid rollback policy %q", moveRollback)
	}

	ctx := cmd.Context()
	logger := slog.Default()
	ctrl := board.NewController(httpStore{c}, board.LogNotifier{Logger: logger}, board.Config{Rollback: policy}, logger)
	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("load board: %w", err)
	}

	v, err := resolveVideo(arg, ctrl.State().Videos)
	if err != nil {
		return err
	}

	drag := board.NewDragAdapter(ctrl)
	drag.OnDragStart(v.ID)
	dest := string(status)
	t := drag.OnDragEnd(ctx, v.ID, &dest)
	if t == nil {
		return reportMove(cmd, v, v.Status, status, board.PhaseIdle)
	}

	select {
	case <-t.Done():
	case <-ctx.Done():
		ctrl.Wait()
	}
	if t.Phase() == board.PhaseRolledBack {
		return fmt.Errorf("%w: %w", errMoveRolledBack, t.Err())
	}
	return reportMove(cmd, v, t.From, t.To, t.Phase())
}

func moveOnServer(cmd *cobra.Command, c *Client, arg string, status review.Status) error {
	ctx := cmd.Context()
	v, err := lookupVideo(ctx, c, arg)
	if err != nil {
		return err
	}
	resp, err := c.MoveLive(ctx, v.ID, status)
	if err != nil {
		return err
	}
	if jsonOutput {
		printJSON(cmd.OutOrStdout(), resp)
		return nil
	}
	out := cmd.OutOrStdout()
	if !resp.Applied {
		_, _ = fmt.Fprintf(out, "%s is already in %s\n", v.Title, status.Title())
		return nil
	}
	_, _ = fmt.Fprintf(out, "%s: %s → %s (pending on server)\n", v.Title,
		review.Status(resp.From).Title(), review.Status(resp.To).Title())
	return nil
}

func reportMove(cmd *cobra.Command, v review.Video, from, to review.Status, phase board.Phase) error {
	if jsonOutput {
		printJSON(cmd.OutOrStdout(), map[string]any{
			"video_id": v.ID,
			"from":     from,
			"to":       to,
			"phase":    phase.String(),
			"applied":  phase != board.PhaseIdle,
		})
		return nil
	}
	out := cmd.OutOrStdout()
	if phase == board.PhaseIdle {
		_, _ = fmt.Fprintf(out, "%s is already in %s\n", v.Title, to.Title())
		return nil
	}
	_, _ = fmt.Fprintf(out, "%s %s: %s → %s\n", okStyle.Render("✓"), v.Title, from.Title(), to.Title())
	return nil
}
