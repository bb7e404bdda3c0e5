package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	core "select2/internal/combobox"
	"select2/internal/config"
	"select2/internal/directory"
	"select2/internal/domain"
	"select2/internal/eventbus"
	"select2/internal/ui"
)

func main() {
	// Parse command line arguments
	var configPath, dbPath, logPath string
	flag.StringVar(&configPath, "config", "", "Path to the config file")
	flag.StringVar(&dbPath, "db", "", "Path to the people directory database")
	flag.StringVar(&logPath, "log", "select2.log", "Path to the log file")
	flag.Parse()

	// Set up logging
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	// Load configuration with event bus support
	var configSvc config.ConfigService
	if configPath != "" {
		configSvc = config.NewConfigServiceForPath(configPath, bus)
	} else {
		configSvc = config.NewConfigServiceWithBus(bus)
	}
	cfg := loadOrCreateConfig(configSvc)

	// Open the directory used for names missing from the config
	var fetch core.FetchFunc[domain.Person]
	if cfg.LazyLoad.Enabled {
		store, err := openDirectory(cfg, dbPath)
		if err != nil {
			log.Printf("Directory unavailable, lazy loading disabled: %v", err)
		} else {
			defer store.Close()
			fetch = store.Search
		}
	}

	// Create UI model
	log.Printf("Creating UI model...")
	uiModel, err := ui.NewModel(ctx, cfg, configSvc, bus, fetch)
	if err != nil {
		fmt.Printf("Error creating UI: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))

	// Forward the events the status line reports on
	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	bus.Subscribe(eventbus.EventOptionPicked, forward)
	bus.Subscribe(eventbus.EventFetchCompleted, forward)
	bus.Subscribe(eventbus.EventFetchFailed, forward)

	// Run the UI
	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")
}

// loadOrCreateConfig loads the config, writing the defaults on first run
func loadOrCreateConfig(configSvc config.ConfigService) *config.Config {
	path := configSvc.Path()

	if _, err := os.Stat(path); err == nil {
		cfg, err := configSvc.Load()
		if err == nil {
			log.Printf("Loaded config from %s", path)
			return cfg
		}
		log.Printf("Error loading config %s, using defaults: %v", path, err)
		return config.DefaultConfig()
	}

	log.Printf("Creating new config at %s", path)
	cfg := config.DefaultConfig()
	if err := configSvc.Save(cfg); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
	return cfg
}

// openDirectory opens the sqlite directory; dbPath overrides the config
func openDirectory(cfg *config.Config, dbPath string) (*directory.Store, error) {
	if dbPath == "" {
		dbPath = cfg.Directory.Path
	}
	delay, err := cfg.LazyLoad.DelayDuration()
	if err != nil {
		return nil, err
	}
	return directory.Open(dbPath, delay)
}
