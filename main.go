package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kindling/internal/api"
	"kindling/internal/config"
	"kindling/internal/logging"
	"kindling/internal/monitor"
	"kindling/internal/store"
	"kindling/internal/ui"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string
	var debug bool

	cmd := &cobra.Command{
		Use:           "kindling",
		Short:         "A Hacker News client for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, debug)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")
	cmd.Flags().BoolVar(&debug, "debug", false, "log at debug level")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})
	return cmd
}

func run(configPath string, debug bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	log, err := logging.New(cfg.LogPath, debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	client := api.NewClient(cfg.HTTPTimeout)

	// Warm the default list so the first paint can come from sqlite.
	go prefetch(client, st, cfg)

	app := ui.NewApp(cfg, client, st, log)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	watcher := monitor.New(cfg, client, st, log)
	watcher.Start(p)
	defer watcher.Stop()

	log.Info("starting", zap.String("version", version), zap.String("db", cfg.DBPath))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func prefetch(client *api.Client, st *store.Store, cfg config.Config) {
	ctx := context.Background()
	settings, _ := st.Settings()
	listType := api.StoryType(settings.DefaultList)
	// The past list has no id endpoint to warm.
	if listType == "" || listType == api.StoryTypePast {
		listType = api.StoryTypeTop
	}
	ids, err := client.GetStoryIDs(ctx, listType)
	if err != nil {
		return
	}
	if len(ids) > cfg.FetchPageSize {
		ids = ids[:cfg.FetchPageSize]
	}
	st.PutStoryList(string(listType), ids)
	items, _ := client.BatchGetItems(ctx, ids)
	for _, item := range items {
		if item != nil {
			st.PutItem(item)
		}
	}
}
