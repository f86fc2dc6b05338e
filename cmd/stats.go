package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/devtutor/internal/topics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show tutor chat statistics per topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		stats, err := svc.Tutor.Stats(cmd.Context())
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("No conversations yet.")
			return nil
		}

		fmt.Printf("%-28s  %8s  %10s  %6s  %s\n", "Topic", "Messages", "Exercises", "Score", "Last activity")
		fmt.Println(strings.Repeat("─", 80))

		var correct, attempted int
		for _, st := range stats {
			score := "-"
			if st.Attempted > 0 {
				score = fmt.Sprintf("%d%%", st.Percent)
			}
			fmt.Printf("%-28s  %8d  %10s  %6s  %s\n",
				truncate(topics.PathTopicName(st.Topic), 28),
				st.Messages,
				fmt.Sprintf("%d/%d", st.Correct, st.Attempted),
				score,
				st.UpdatedAt.Local().Format("2006-01-02 15:04"),
			)
			correct += st.Correct
			attempted += st.Attempted
		}
		fmt.Println(strings.Repeat("─", 80))
		fmt.Printf("%-28s  %8s  %10s\n", "TOTAL", "", fmt.Sprintf("%d/%d", correct, attempted))
		return nil
	},
}
