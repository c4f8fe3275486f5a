package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"glint/config"
	"glint/model"
	"glint/provider"
	"glint/storage"
	"glint/tools"
	"glint/ui"
)

const Version = "v0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if config.CheckDebug() {
		config.InitDebugLog(cfg.DataDir())
	}

	store, err := storage.NewConversationStore(cfg.DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open conversation store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	client := provider.New(cfg.Settings)
	namer := provider.NewNamer()

	dataModel, err := model.NewModel(cfg, store, client, namer, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	dataModel.ClientFactory = provider.New

	// The registry reads settings through the model so edits made in the
	// settings overlay reach tool executors without a restart.
	dataModel.Tools = tools.NewRegistry(func() config.Settings {
		return dataModel.Config.Settings
	})

	p := tea.NewProgram(
		ui.NewAppView(dataModel),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running glint: %v\n", err)
		os.Exit(1)
	}

	// Persist whatever the last turn left in memory before exit.
	dataModel.CancelTurn()
	dataModel.Current.Messages = model.ToStorageMessages(dataModel.Messages())
	if err := store.Save(dataModel.Current); err != nil {
		config.Log.Warn("failed to save conversation on exit", "error", err)
	}
}
