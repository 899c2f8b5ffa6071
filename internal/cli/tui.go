package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/apolo/internal/oracle"
	"github.com/sandeepkv93/apolo/internal/scheduler"
	"github.com/sandeepkv93/apolo/internal/update"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, opts.cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	provider, err := a.connectOracle(ctx)
	if err != nil {
		return err
	}
	engine := scheduler.NewEngine(a.cfg.SchedulerBuffer, a.log)
	engine.Start()
	defer engine.Stop()

	imageDir, err := os.Getwd()
	if err != nil {
		imageDir = "."
	}
	model := update.NewModel(ctx, update.Deps{
		Board:       a.loadBoard(ctx),
		Assistant:   a.loadAssistant(ctx, provider),
		Enricher:    oracle.NewEnricher(provider, oracle.Policy(a.cfg.EnrichPolicy), a.log),
		Provider:    provider,
		Scheduler:   engine,
		Prefs:       a.snaps,
		Preferences: a.snaps.LoadPreferences(ctx),
		ImageDir:    imageDir,
		Logger:      a.log,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("apolo failed: %w", err)
	}
	a.log.Info().Msg("bye")
	return nil
}
