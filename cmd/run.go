package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/app"
	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/screen"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	log := openLogger(cfg)
	defer log.Sync()

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	svc := screen.NewServices(catalog, st.EventRepo(), log)
	svc.Questions = cfg.Questions
	svc.AudioCommand = cfg.AudioCommand

	llmCfg, err := llm.ResolveConfig()
	svc.LLM = llmCfg
	if err != nil {
		log.Info("no LLM key configured", "error", err)
	} else if err := svc.Connect(ctx, llmCfg); err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Enter an API key from the home screen to enable AI features.")
		log.Warn("connect llm", "provider", llmCfg.Provider, "error", err)
	}

	log.Info("starting", "version", version, "db", cfg.DBPath, "catalog", catalog.Version)
	return app.Run(svc)
}
