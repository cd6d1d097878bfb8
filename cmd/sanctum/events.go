package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/bggdog/sanctum-video-review/internal/events"
	"github.com/bggdog/sanctum-video-review/internal/review"
)

var (
	eventsLimit  int
	eventsType   string
	eventsFollow bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent activity",
	Long: `Show recent activity, newest first. --follow streams events as they
happen, including the outcome of live board moves (board.notice).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := newClient()
		if eventsFollow {
			return followEvents(cmd, c)
		}

		resp, err := c.Events(cmd.Context(), eventsLimit, eventsType)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), resp)
			return nil
		}

		out := cmd.OutOrStdout()
		if len(resp.Items) == 0 {
			_, _ = fmt.Fprintln(out, "No events.")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "WHEN\tTYPE\tDETAIL")
		for _, e := range resp.Items {
			when := e.OccurredAt
			if t, err := time.Parse(time.RFC3339, e.OccurredAt); err == nil {
				when = formatTimeAgo(t)
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", when, e.EventType, truncate(describeEvent(e.EventType, e.Payload), 80))
		}
		_ = tw.Flush()
		return nil
	},
}

func followEvents(cmd *cobra.Command, c *Client) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	err := c.StreamEvents(ctx, eventsType, func(e StreamEvent) error {
		if jsonOutput {
			_, err := fmt.Fprintln(out, e.Data)
			return err
		}
		_, err := fmt.Fprintf(out, "%s  %s  %s\n", time.Now().Format(time.TimeOnly), headingStyle.Render(e.Type), describeEvent(e.Type, e.Data))
		return err
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

var eventRegistry = events.DefaultRegistry()

// describeEvent renders an event payload as one line. Payloads of types
// this client does not know are returned as they are.
func describeEvent(eventType, payload string) string {
	e, err := eventRegistry.Unmarshal(events.RawEvent{EventType: eventType, Payload: payload})
	if err != nil {
		return payload
	}
	switch e := e.(type) {
	case *events.VideoCreated:
		return fmt.Sprintf("%q added to %s by %s", e.Title, review.Status(e.Status).Title(), e.UploadedBy)
	case *events.VideoUpdated:
		return fmt.Sprintf("video %s changed %s", shortID(e.EntityID()), strings.Join(e.Fields, ", "))
	case *events.VideoStatusChanged:
		line := fmt.Sprintf("video %s moved %s → %s", shortID(e.EntityID()),
			review.Status(e.OldStatus).Title(), review.Status(e.NewStatus).Title())
		if e.ChangedBy != "" {
			line += " by " + e.ChangedBy
		}
		return line
	case *events.VideoDeleted:
		return fmt.Sprintf("%q deleted", e.Title)
	case *events.CommentAdded:
		return fmt.Sprintf("%s at %s on video %s", e.CommentType, formatTimestamp(e.Timestamp), shortID(e.VideoID))
	case *events.CommentDeleted:
		return fmt.Sprintf("comment %s deleted", shortID(e.EntityID()))
	case *events.ApprovalRecorded:
		verdict := "rejected"
		if e.Approved {
			verdict = "approved"
		}
		return fmt.Sprintf("%s %s video %s", e.UserID, verdict, shortID(e.VideoID))
	case *events.AnalyticsRecorded:
		return fmt.Sprintf("%d views on %s for video %s", e.Views, e.Date, shortID(e.VideoID))
	case *events.BoardNotice:
		if e.Level == events.NoticeFailure {
			return errStyle.Render(e.Message)
		}
		return okStyle.Render(e.Message)
	}
	return payload
}

func init() {
	eventsCmd.Flags().IntVarP(&eventsLimit, "limit", "n", 20, "Number of events")
	eventsCmd.Flags().StringVarP(&eventsType, "type", "t", "", "Only this event type, e.g. video.status.changed")
	eventsCmd.Flags().BoolVarP(&eventsFollow, "follow", "f", false, "Stream new events until interrupted")
	rootCmd.AddCommand(eventsCmd)
}
