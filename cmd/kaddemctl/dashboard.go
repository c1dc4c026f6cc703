package main

import (
	"github.com/spf13/cobra"
)

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count students, contracts, departments, teams and universities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := c.svc.Stats(cmd.Context())
			for _, st := range resp.Collections {
				warnStatus(cmd.ErrOrStderr(), st)
			}
			renderStats(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

func (c *cli) histogramCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "histogram",
		Short: "Students per option",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := c.svc.Histogram(cmd.Context())
			warnStatus(cmd.ErrOrStderr(), resp.Students)
			renderHistogram(cmd.OutOrStdout(), resp.Histogram)
			return nil
		},
	}
}

func (c *cli) recentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "Recent students panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := c.svc.RecentStudents(cmd.Context())
			warnStatus(cmd.ErrOrStderr(), resp.Status)
			renderRecent(cmd.OutOrStdout(), resp.Students)
			return nil
		},
	}
}

func (c *cli) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Load every collection and show its state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.svc.Refresh(cmd.Context())
			renderCollections(cmd.OutOrStdout(), resp)
			return err
		},
	}
}
