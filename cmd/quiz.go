package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/devtutor/internal/logging"
	"github.com/abhisek/devtutor/internal/quiz"
	"github.com/abhisek/devtutor/internal/topics"
)

var quizCmd = &cobra.Command{
	Use:   "quiz [topic]",
	Short: "Print a question set for a topic",
	Long: "Resolve a question set the same way the quiz screen does and print it. " +
		"topic is a catalog id (html, css, javascript, react, nodejs) or any free text.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		difficulty, _ := cmd.Flags().GetString("difficulty")
		count, _ := cmd.Flags().GetInt("count")
		categoryName, _ := cmd.Flags().GetString("category")
		asJSON, _ := cmd.Flags().GetBool("json")
		refresh, _ := cmd.Flags().GetBool("refresh")

		category, err := quiz.ParseCategory(categoryName)
		if err != nil {
			return err
		}

		topic := "html"
		if len(args) > 0 {
			topic = args[0]
		}
		if t, ok := topics.Lookup(strings.ToLower(topic)); ok {
			topic = t.Name
		}

		svc, cleanup, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := logging.IntoContext(cmd.Context(), svc.Logger)
		cache, closeCache, err := svc.QuestionCache(ctx)
		if err != nil {
			svc.Logger.Warn().Err(err).Msg("question cache unavailable")
		} else {
			defer closeCache()
		}

		res := quiz.ResolveCached(ctx, svc.Resolver, cache, quiz.Request{
			Topic:      topic,
			Difficulty: quiz.Difficulty(difficulty),
			Count:      count,
			Category:   category,
		}, refresh)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Source    quiz.Source     `json:"source"`
				Questions []quiz.Question `json:"questions"`
			}{res.Source, res.Questions})
		}

		printQuestions(topic, res)
		return nil
	},
}

func printQuestions(topic string, res quiz.Result) {
	fmt.Printf("%s (%s)\n", topic, sourceLabel(res.Source))
	fmt.Println(strings.Repeat("─", 60))
	for _, q := range res.Questions {
		fmt.Printf("\n%d. %s\n", q.ID, q.Question)
		for i, opt := range q.Options {
			mark := " "
			if q.IsCorrect(i) {
				mark = "✓"
			}
			fmt.Printf("   %s %c) %s\n", mark, 'a'+i, opt)
		}
		if q.Explanation != "" {
			fmt.Printf("   %s\n", q.Explanation)
		}
	}
}

func sourceLabel(src quiz.Source) string {
	switch src {
	case quiz.SourceRemote:
		return "gerado por IA"
	case quiz.SourceFallback:
		return "perguntas de exemplo"
	default:
		return "perguntas provisórias"
	}
}

func init() {
	quizCmd.Flags().StringP("difficulty", "d", string(quiz.DefaultDifficulty), "Difficulty passed to the generator")
	quizCmd.Flags().IntP("count", "n", quiz.DefaultCount, "Number of questions to request")
	quizCmd.Flags().StringP("category", "c", string(quiz.DefaultCategory), "Category: basics, intermediate, advanced, practical, theory")
	quizCmd.Flags().Bool("json", false, "Print JSON instead of text")
	quizCmd.Flags().Bool("refresh", false, "Skip the shared question cache")
}
