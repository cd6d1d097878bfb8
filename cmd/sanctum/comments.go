package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "Timestamped review comments",
}

var commentsListCmd = &cobra.Command{
	Use:   "list <video>",
	Short: "List a video's comments in playback order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newClient()
		v, err := lookupVideo(ctx, c, args[0])
		if err != nil {
			return err
		}
		resp, err := c.Comments(ctx, v.ID)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), resp)
			return nil
		}

		out := cmd.OutOrStdout()
		if len(resp.Items) == 0 {
			_, _ = fmt.Fprintf(out, "No comments on %q.\n", v.Title)
			return nil
		}
		for _, cm := range resp.Items {
			who := cm.UserID
			if who == "" {
				who = "anonymous"
			}
			_, _ = fmt.Fprintf(out, "[%s] %-8s %s: %s  %s\n", formatTimestamp(cm.Timestamp), cm.CommentType,
				who, cm.Content, mutedStyle.Render(shortID(cm.ID)))
		}
		return nil
	},
}

var commentType string

var commentsAddCmd = &cobra.Command{
	Use:   "add <video> <timestamp> <text>",
	Short: "Comment at a playback position",
	Long: `Comment at a playback position. <timestamp> is seconds ("83.5") or
clock notation ("1:23", "1:02:03").`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseTimestamp(args[1])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		c := newClient()
		v, err := lookupVideo(ctx, c, args[0])
		if err != nil {
			return err
		}
		cm, err := c.AddComment(ctx, v.ID, at, args[2], commentType)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), cm)
			return nil
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s at %s on %q\n", cm.CommentType, formatTimestamp(cm.Timestamp), v.Title)
		return nil
	},
}

var commentsRmCmd = &cobra.Command{
	Use:   "rm <comment-id>",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteComment(cmd.Context(), args[0]); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Comment deleted")
		return nil
	},
}

func init() {
	commentsAddCmd.Flags().StringVarP(&commentType, "type", "t", "", "Comment type: note, critique or approval (default note)")

	commentsCmd.AddCommand(commentsListCmd, commentsAddCmd, commentsRmCmd)
	rootCmd.AddCommand(commentsCmd)
}
