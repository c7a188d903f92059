package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bloomify/bloomify/internal/app"
	"github.com/bloomify/bloomify/internal/assessment"
	"github.com/bloomify/bloomify/internal/config"
	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/llm"
	"github.com/bloomify/bloomify/internal/questiongen"
	"github.com/bloomify/bloomify/internal/sessionstore"
	"github.com/bloomify/bloomify/internal/store"
	"github.com/bloomify/bloomify/internal/syllabus"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Take an adaptive assessment in the terminal",
	Example: "  bloomify play --syllabus go-basics.yaml\n" +
		"  bloomify play --syllabus notes.md --kind mcq --per-level 4",
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringP("syllabus", "s", "", "Syllabus file (YAML with an optional question bank, or plain text)")
	playCmd.Flags().StringP("kind", "k", "", "Question kind: descriptive or mcq (default from config)")
	playCmd.Flags().IntP("per-level", "n", 0, "Questions per level (default from config)")
	playCmd.Flags().StringP("learner", "l", "", "Learner name recorded with the results (default $USER)")
	playCmd.Flags().Bool("offline", false, "Use only the syllabus question bank, never an LLM")
	playCmd.Flags().Bool("no-welcome", false, "Skip the welcome screen")
	_ = playCmd.MarkFlagRequired("syllabus")
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("syllabus")
	syl, err := syllabus.Load(path)
	if err != nil {
		return err
	}

	kind := e.cfg.Quiz.Kind
	if k, _ := cmd.Flags().GetString("kind"); k != "" {
		if kind, err = evaluator.ParseKind(k); err != nil {
			return err
		}
	}
	perLevel := e.cfg.Quiz.QuestionsPerLevel
	if n, _ := cmd.Flags().GetInt("per-level"); n != 0 {
		perLevel = n
	}
	learner, _ := cmd.Flags().GetString("learner")
	if learner == "" {
		learner = defaultLearner()
	}
	offline, _ := cmd.Flags().GetBool("offline")
	skipWelcome, _ := cmd.Flags().GetBool("no-welcome")

	st, err := e.openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	source, err := buildSource(ctx, e, st, syl, kind, offline)
	if err != nil {
		return err
	}

	sessions, closeSessions, err := buildSessions(ctx, e.cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	engine := assessment.NewEngine(source, sessions, st.FeedbackRepo(), assessment.WithLogger(e.log))
	attemptID, err := engine.Start(ctx, assessment.StartInput{
		LearnerID:         learner,
		SyllabusTitle:     syl.Title,
		Syllabus:          syl.Content,
		Kind:              kind,
		QuestionsPerLevel: perLevel,
	})
	if err != nil {
		return err
	}

	return app.Run(app.Options{
		Engine:        engine,
		AttemptID:     attemptID,
		SyllabusTitle: syl.Title,

		Kind:              kind,
		QuestionsPerLevel: perLevel,
		SkipWelcome:       skipWelcome,
	})
}

// buildSource picks the LLM generator when a provider is configured and
// falls back to the syllabus question bank otherwise.
func buildSource(ctx context.Context, e *env, st *store.Store, syl *syllabus.Syllabus, kind evaluator.Kind, offline bool) (questiongen.Generator, error) {
	if !offline {
		if llmCfg, ok := e.cfg.ResolveLLM(); ok {
			provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), e.log)
			if err != nil {
				return nil, fmt.Errorf("build LLM provider: %w", err)
			}
			e.log.Info("generating questions with LLM",
				zap.String("provider", llmCfg.Provider), zap.String("model", provider.ModelID()))
			return questiongen.New(provider, questiongen.DefaultConfig()), nil
		}
		fmt.Fprintln(os.Stderr, "LLM provider not configured.")
	}

	if !syl.HasBank(kind) {
		return nil, fmt.Errorf("syllabus %q has no %s questions to use without an LLM provider", syl.Title, kind)
	}
	if !offline {
		fmt.Fprintln(os.Stderr, "Using the syllabus question bank.")
	}
	return questiongen.NewBank(syl), nil
}

// buildSessions opens the configured session backend. The returned func
// releases it.
func buildSessions(ctx context.Context, cfg *config.Config) (sessionstore.Store, func(), error) {
	if cfg.Session.Backend != config.SessionRedis {
		return sessionstore.NewMemory(cfg.Session.TTL), func() {}, nil
	}
	client, err := sessionstore.NewRedisClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	return sessionstore.NewRedis(client, cfg.Session.TTL), func() { _ = client.Close() }, nil
}

func defaultLearner() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "learner"
}
