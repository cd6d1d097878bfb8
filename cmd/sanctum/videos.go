package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bggdog/sanctum-video-review/internal/review"
)

var videosCmd = &cobra.Command{
	Use:     "videos",
	Aliases: []string{"video", "v"},
	Short:   "List and manage videos",
}

var (
	listStatus   string
	listUploader string
	listQuery    string
	listLimit    int
)

var videosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List videos, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		q := VideoQuery{UploadedBy: listUploader, Query: listQuery, Limit: listLimit}
		if listStatus != "" {
			st, err := parseStatusArg(listStatus)
			if err != nil {
				return err
			}
			q.Status = string(st)
		}
		resp, err := newClient().Videos(cmd.Context(), q)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), resp)
			return nil
		}

		out := cmd.OutOrStdout()
		if len(resp.Items) == 0 {
			_, _ = fmt.Fprintln(out, "No videos found.")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tUPLOADED BY\tADDED")
		for _, v := range resp.Items {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", shortID(v.ID), truncate(v.Title, 40),
				review.Status(v.Status).Title(), v.UploadedBy, formatTimeAgo(v.CreatedAt))
		}
		_ = tw.Flush()
		if resp.Total > len(resp.Items) {
			_, _ = fmt.Fprintf(out, "\nShowing %d of %d videos\n", len(resp.Items), resp.Total)
		}
		return nil
	},
}

var (
	addDescription string
	addThumbnail   string
	addStatus      string
)

var videosAddCmd = &cobra.Command{
	Use:   "add <title> <media-url>",
	Short: "Add a video",
	Long: `Add a video. <media-url> is a gs://bucket/object path or an http(s) link.
Google Drive sharing links play through the Drive preview.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		nv := NewVideo{Title: args[0], MediaURL: args[1]}
		if addDescription != "" {
			nv.Description = &addDescription
		}
		if addThumbnail != "" {
			nv.ThumbnailURL = &addThumbnail
		}
		if addStatus != "" {
			st, err := parseStatusArg(addStatus)
			if err != nil {
				return err
			}
			s := string(st)
			nv.Status = &s
		}

		v, err := newClient().AddVideo(cmd.Context(), nv)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), v)
			return nil
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s) to %s\n", v.Title, v.ID, review.Status(v.Status).Title())
		return nil
	},
}

var videosShowCmd = &cobra.Command{
	Use:   "show <video>",
	Short: "Show a video and how it plays",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newClient()
		v, err := lookupVideo(ctx, c, args[0])
		if err != nil {
			return err
		}
		p, err := c.Playback(ctx, v.ID)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), map[string]any{"video": v, "playback": p})
			return nil
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, headingStyle.Render(v.Title))
		_, _ = fmt.Fprintf(out, "  ID:        %s\n", v.ID)
		_, _ = fmt.Fprintf(out, "  Status:    %s\n", v.Status.Title())
		_, _ = fmt.Fprintf(out, "  Added by:  %s, %s\n", v.UploadedBy, formatTimeAgo(v.CreatedAt))
		if v.Description != nil {
			_, _ = fmt.Fprintf(out, "  About:     %s\n", strings.TrimSpace(*v.Description))
		}
		_, _ = fmt.Fprintf(out, "  Media:     %s\n", v.MediaURL)
		_, _ = fmt.Fprintf(out, "  Playback:  %s %s\n", p.Kind, p.URL)
		return nil
	},
}

var videosRmCmd = &cobra.Command{
	Use:     "rm <video>",
	Aliases: []string{"delete"},
	Short:   "Delete a video with its comments, approvals and analytics",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newClient()
		v, err := lookupVideo(ctx, c, args[0])
		if err != nil {
			return err
		}
		if err := c.DeleteVideo(ctx, v.ID); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", v.Title)
		return nil
	},
}

func init() {
	videosListCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Only videos in this status")
	videosListCmd.Flags().StringVar(&listUploader, "uploaded-by", "", "Only videos added by this user")
	videosListCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Search titles and descriptions")
	videosListCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "Maximum videos to show")

	videosAddCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description")
	videosAddCmd.Flags().StringVar(&addThumbnail, "thumbnail", "", "Thumbnail URL")
	videosAddCmd.Flags().StringVarP(&addStatus, "status", "s", "", "Initial status (default ideation)")

	videosCmd.AddCommand(videosListCmd, videosAddCmd, videosShowCmd, videosRmCmd)
	rootCmd.AddCommand(videosCmd)
}
