package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var approvalNotes string

var approveCmd = &cobra.Command{
	Use:   "approve <video>",
	Short: "Approve a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordApproval(cmd, args[0], true)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <video>",
	Short: "Reject a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordApproval(cmd, args[0], false)
	},
}

// recordApproval sets the caller's decision; a later decision replaces it.
func recordApproval(cmd *cobra.Command, arg string, approved bool) error {
	ctx := cmd.Context()
	c := newClient()
	v, err := lookupVideo(ctx, c, arg)
	if err != nil {
		return err
	}
	a, err := c.RecordApproval(ctx, v.ID, approved, approvalNotes)
	if err != nil {
		return err
	}
	if jsonOutput {
		printJSON(cmd.OutOrStdout(), a)
		return nil
	}
	verdict := okStyle.Render("approved")
	if !approved {
		verdict = errStyle.Render("rejected")
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %q\n", a.UserID, verdict, v.Title)
	return nil
}

var approvalsCmd = &cobra.Command{
	Use:   "approvals <video>",
	Short: "List who approved or rejected a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newClient()
		v, err := lookupVideo(ctx, c, args[0])
		if err != nil {
			return err
		}
		resp, err := c.Approvals(ctx, v.ID)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), resp)
			return nil
		}

		out := cmd.OutOrStdout()
		if len(resp.Items) == 0 {
			_, _ = fmt.Fprintf(out, "No approvals on %q.\n", v.Title)
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "USER\tDECISION\tWHEN\tNOTES")
		for _, a := range resp.Items {
			decision := "rejected"
			if a.Approved {
				decision = "approved"
			}
			notes := ""
			if a.Notes != nil {
				notes = truncate(*a.Notes, 50)
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.UserID, decision, formatTimeAgo(a.CreatedAt), notes)
		}
		_ = tw.Flush()
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{approveCmd, rejectCmd} {
		c.Flags().StringVarP(&approvalNotes, "notes", "m", "", "Notes for the uploader")
	}
	rootCmd.AddCommand(approveCmd, rejectCmd, approvalsCmd)
}
