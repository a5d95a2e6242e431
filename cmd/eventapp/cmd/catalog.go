package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listPage int

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show the event schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		if err := a.requireAuth(cmd.Context()); err != nil {
			return err
		}
		schedules, err := a.events.Schedules(cmd.Context())
		if err != nil {
			return err
		}
		for _, day := range schedules {
			fmt.Fprintf(cmd.OutOrStdout(), "%s — %s (%s)\n", day.Day, day.Title, day.Date)
			for _, entry := range day.Agenda {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %s\n", entry.Time, entry.Title)
			}
		}
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show live sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		if err := a.requireAuth(cmd.Context()); err != nil {
			return err
		}
		sessions, err := a.events.LiveSessions(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range sessions {
			fmt.Fprintf(cmd.OutOrStdout(), "%s–%s  %s [%s]\n", s.Time, s.EndTime, s.Title, s.State)
		}
		return nil
	},
}

var speakersCmd = &cobra.Command{
	Use:   "speakers",
	Short: "List speakers",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		if err := a.requireAuth(cmd.Context()); err != nil {
			return err
		}
		speakers, err := a.events.Speakers(cmd.Context())
		if err != nil {
			return err
		}
		for _, sp := range speakers {
			fmt.Fprintf(cmd.OutOrStdout(), "%s — %s\n", sp.FullName, sp.Title)
		}
		return nil
	},
}

var sponsorsCmd = &cobra.Command{
	Use:   "sponsors",
	Short: "List sponsors",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		if err := a.requireAuth(cmd.Context()); err != nil {
			return err
		}
		sponsors, err := a.events.Sponsors(cmd.Context())
		if err != nil {
			return err
		}
		for _, sp := range sponsors {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) %s\n", sp.Name, sp.Category, sp.URL)
		}
		return nil
	},
}

var abstractsCmd = &cobra.Command{
	Use:   "abstracts",
	Short: "List submitted abstracts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		if err := a.requireAuth(cmd.Context()); err != nil {
			return err
		}
		page, err := a.events.Abstracts(cmd.Context(), listPage)
		if err != nil {
			return err
		}
		for _, ab := range page.Data {
			fmt.Fprintf(cmd.OutOrStdout(), "%s — %s (%s)\n", ab.Title, ab.Name, ab.Organisation)
		}
		printPageFooter(cmd, page.Meta.Pagination.Page, page.Meta.Pagination.PageCount)
		return nil
	},
}

var announcementsCmd = &cobra.Command{
	Use:   "announcements",
	Short: "List announcements",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		if err := a.requireAuth(cmd.Context()); err != nil {
			return err
		}
		page, err := a.events.Announcements(cmd.Context(), listPage)
		if err != nil {
			return err
		}
		for _, an := range page.Data {
			fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", an.Description)
		}
		printPageFooter(cmd, page.Meta.Pagination.Page, page.Meta.Pagination.PageCount)
		return nil
	},
}

func printPageFooter(cmd *cobra.Command, page, pageCount int) {
	if pageCount > 1 {
		fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (use --page)\n", page, pageCount)
	}
}

func init() {
	for _, c := range []*cobra.Command{abstractsCmd, announcementsCmd} {
		c.Flags().IntVar(&listPage, "page", 1, "page number")
	}
	rootCmd.AddCommand(scheduleCmd, sessionsCmd, speakersCmd, sponsorsCmd, abstractsCmd, announcementsCmd)
}
