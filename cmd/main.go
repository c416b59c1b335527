package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/victornm/quizboard/internal/config"
	"github.com/victornm/quizboard/internal/server"
	"github.com/victornm/quizboard/internal/telemetry"
)

func main() {
	c, err := loadConfig()
	if err != nil {
		log.Fatalf("Load config failed: %v", err)
	}

	logs, err := telemetry.SetupLogger(c.Log)
	if err != nil {
		log.Fatalf("Setup logger failed: %v", err)
	}
	defer logs.Close()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGTERM, os.Interrupt)

	s, err := server.Init(c)
	if err != nil {
		log.Fatalf("Init server failed: %v", err)
	}

	failed := make(chan error, 1)
	go func() { failed <- s.Start() }()

	var runErr error
	select {
	case <-shutdown:
	case runErr = <-failed:
	}
	s.Shutdown()

	if runErr != nil {
		_ = logs.Close()
		log.Fatalf("Server stopped: %v", runErr)
	}
}

// loadConfig reads CONFIG_PATH on top of the defaults. Without it only defaults and env apply.
func loadConfig() (server.Config, error) {
	c := server.DefaultConfig()

	if err := config.Load(os.Getenv("CONFIG_PATH"), &c); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}

	return c, nil
}
