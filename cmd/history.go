package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maxvaer/brutecli/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded job outcomes from the --db history file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if opts.DBPath == "" {
			return fmt.Errorf("history needs --db PATH")
		}
		s, err := store.Open(opts.DBPath)
		if err != nil {
			return err
		}
		defer s.Close()

		rows, err := s.ListRecent(context.Background(), historyLimit)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "[*] No runs recorded yet")
			return nil
		}

		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}
		found := color.New(color.FgGreen)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s  %-8s  %-5s  %-24s  %-22s  %s\n", "Started", "Run", "Proto", "Target", "Result", "Tried")
		for _, r := range rows {
			result := "none"
			if r.Found {
				result = found.Sprintf("%-22s", r.Username+":"+r.Password)
			} else {
				result = fmt.Sprintf("%-22s", result)
			}
			fmt.Fprintf(out, "%-20s  %-8.8s  %-5s  %-24s  %s  %d/%d in %s\n",
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				r.RunID, r.Protocol,
				fmt.Sprintf("%s:%d", r.Target, r.Port),
				result, r.Attempted, r.Total, r.Duration.Round(time.Millisecond))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of rows to show")
	historyCmd.Flags().Bool("no-color", false, "Disable colored output")
}
