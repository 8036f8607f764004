package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/grading"
	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/quiz"
)

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade a single open-ended answer with the configured LLM",
	Example: `  studymate grade --prompt "Why is 1 not prime?" \
    --answer "A prime has exactly two divisors; 1 has one." \
    --response "because it only divides by itself"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, _ := cmd.Flags().GetString("prompt")
		answer, _ := cmd.Flags().GetString("answer")
		response, _ := cmd.Flags().GetString("response")
		passage, _ := cmd.Flags().GetString("passage")
		kindFlag, _ := cmd.Flags().GetString("kind")

		kind, err := quiz.ParseKind(kindFlag)
		if err != nil {
			return err
		}
		if !kind.OpenEnded() {
			return fmt.Errorf("kind %q is closed-form; only short-answer and creativity are graded", kind)
		}

		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		log := openLogger(cfg)
		defer log.Sync()

		ctx := cmd.Context()
		provider, llmCfg, err := llm.NewProviderFromEnv(ctx, s.EventRepo(), log)
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		assistant := grading.NewAssistant(provider, grading.DefaultConfig())
		ev, err := assistant.Grade(ctx, grading.Request{
			Kind:            kind,
			Prompt:          prompt,
			Passage:         passage,
			CanonicalAnswer: answer,
			Response:        response,
		})
		if err != nil {
			return fmt.Errorf("grade: %w", err)
		}

		verdict := "incorrect"
		if ev.Grade.Passing() {
			verdict = "correct"
		}
		fmt.Printf("Grade:    %s (%.2f credit, counted %s)\n", ev.Grade, ev.Grade.Credit(), verdict)
		fmt.Printf("Model:    %s/%s\n", llmCfg.Provider, provider.ModelID())
		fmt.Println(strings.Repeat("─", 60))
		fmt.Println(ev.Feedback)
		return nil
	},
}

func init() {
	gradeCmd.Flags().String("prompt", "", "Question text")
	gradeCmd.Flags().String("answer", "", "Model answer")
	gradeCmd.Flags().String("response", "", "Learner response to grade")
	gradeCmd.Flags().String("passage", "", "Optional reading passage")
	gradeCmd.Flags().String("kind", string(quiz.KindShortAnswer), "Question kind: short-answer or creativity")
	_ = gradeCmd.MarkFlagRequired("prompt")
	_ = gradeCmd.MarkFlagRequired("answer")
	_ = gradeCmd.MarkFlagRequired("response")
}
