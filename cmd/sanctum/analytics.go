package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	v1 "github.com/bggdog/sanctum-video-review/internal/api/v1"
)

var (
	analyticsFrom string
	analyticsTo   string
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics [video]",
	Short: "Show per-day analytics",
	Long: `Show per-day analytics for one video, newest first, or for every video
in a date range (default the last 30 days) with totals.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newClient()
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			v, err := lookupVideo(ctx, c, args[0])
			if err != nil {
				return err
			}
			resp, err := c.VideoAnalytics(ctx, v.ID)
			if err != nil {
				return err
			}
			if jsonOutput {
				printJSON(out, resp)
				return nil
			}
			writeAnalytics(out, resp.Items)
			return nil
		}

		to := analyticsTo
		if to == "" {
			to = time.Now().Format(time.DateOnly)
		}
		from := analyticsFrom
		if from == "" {
			end, err := time.Parse(time.DateOnly, to)
			if err != nil {
				return fmt.Errorf("invalid --to date %q", to)
			}
			from = end.AddDate(0, 0, -30).Format(time.DateOnly)
		}
		resp, err := c.Analytics(ctx, from, to)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(out, resp)
			return nil
		}
		writeAnalytics(out, resp.Items)
		t := resp.Totals
		_, _ = fmt.Fprintf(out, "\nTotal %s to %s: %d views, %d likes, %d shares, %d comments, %ds watched\n",
			from, to, t.TotalViews, t.TotalLikes, t.TotalShares, t.TotalComments, t.TotalWatchTime)
		return nil
	},
}

func writeAnalytics(w io.Writer, items []v1.AnalyticsResponse) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, "No analytics recorded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DATE\tVIDEO\tPLATFORM\tVIEWS\tLIKES\tSHARES\tCOMMENTS")
	for _, a := range items {
		platform := "all"
		if a.Platform != nil {
			platform = *a.Platform
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n", a.Date, shortID(a.VideoID), platform,
			a.Views, a.Likes, a.Shares, a.CommentsCount)
	}
	_ = tw.Flush()
}

var (
	recordDate     string
	recordPlatform string
	recordCounts   AnalyticsRecord
)

var analyticsRecordCmd = &cobra.Command{
	Use:   "record <video>",
	Short: "Record one day's numbers; recording the same day again replaces them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newClient()
		v, err := lookupVideo(ctx, c, args[0])
		if err != nil {
			return err
		}
		rec := recordCounts
		rec.VideoID = v.ID
		rec.Date = recordDate
		if rec.Date == "" {
			rec.Date = time.Now().Format(time.DateOnly)
		}
		if recordPlatform != "" {
			rec.Platform = &recordPlatform
		}
		a, err := c.RecordAnalytics(ctx, rec)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), a)
			return nil
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %q\n", a.Date, v.Title)
		return nil
	},
}

func init() {
	analyticsCmd.Flags().StringVar(&analyticsFrom, "from", "", "Range start (YYYY-MM-DD)")
	analyticsCmd.Flags().StringVar(&analyticsTo, "to", "", "Range end (YYYY-MM-DD, default today)")

	f := analyticsRecordCmd.Flags()
	f.StringVar(&recordDate, "date", "", "Day (YYYY-MM-DD, default today)")
	f.StringVarP(&recordPlatform, "platform", "p", "", "Platform: instagram, tiktok or youtube")
	f.Int64Var(&recordCounts.Views, "views", 0, "Views")
	f.Int64Var(&recordCounts.WatchTime, "watch-time", 0, "Watch time in seconds")
	f.Int64Var(&recordCounts.Likes, "likes", 0, "Likes")
	f.Int64Var(&recordCounts.Shares, "shares", 0, "Shares")
	f.Int64Var(&recordCounts.CommentsCount, "comments", 0, "Comments")

	analyticsCmd.AddCommand(analyticsRecordCmd)
	rootCmd.AddCommand(analyticsCmd)
}
