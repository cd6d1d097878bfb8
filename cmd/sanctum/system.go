package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bggdog/sanctum-video-review/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := newClient().Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("server %s unreachable: %w", serverURL, err)
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), st)
			return nil
		}
		events := "off"
		if st.Events {
			events = "on"
		}
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "%s %s\n", okStyle.Render("●"), serverURL)
		_, _ = fmt.Fprintf(out, "  Version: %s\n  Uptime:  %s\n  Videos:  %d\n  Events:  %s\n",
			st.Version, st.Uptime, st.Videos, events)
		return nil
	},
}

var (
	initPath  string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default sanctumd config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := initPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.WriteDefault(path, initForce); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initPath, "path", "", "Where to write (default "+config.DefaultPath()+")")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(statusCmd, initCmd)
}
