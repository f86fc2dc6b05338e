package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/devtutor/internal/topics"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List quiz topics or the learning path",
	RunE: func(cmd *cobra.Command, args []string) error {
		if path, _ := cmd.Flags().GetBool("path"); path {
			printPath()
			return nil
		}

		fmt.Printf("%-12s  %-12s  %-14s  %s\n", "ID", "Name", "Difficulty", "Description")
		fmt.Println(strings.Repeat("─", 90))
		for _, t := range topics.All() {
			fmt.Printf("%-12s  %-12s  %-14s  %s\n",
				t.ID, t.Name, topics.DifficultyLabel(t.Difficulty), t.Description)
		}
		return nil
	},
}

func printPath() {
	fmt.Printf("%-14s  %-5s  %-12s  %-14s  %s\n", "ID", "Level", "Track", "Requires", "Name")
	fmt.Println(strings.Repeat("─", 80))
	for _, p := range topics.Path() {
		req := p.Prerequisite
		if req == "" {
			req = "-"
		}
		fmt.Printf("%-14s  %-5d  %-12s  %-14s  %s%s\n",
			p.ID, p.Level, p.Category.Label(), req, strings.Repeat("  ", max(p.Level-1, 0)), p.Name)
	}
}

func init() {
	topicsCmd.Flags().Bool("path", false, "Show the tutor learning path instead of the quiz catalog")
}
