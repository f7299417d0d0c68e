package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/goldenvalley/internal/gateway"
	"github.com/csheth/goldenvalley/internal/status"
	"github.com/csheth/goldenvalley/internal/tui"
)

const logFileEnvVar = "GVD_LOG_FILE"

func main() {
	apiURL := flag.String("api-url", "", "backend base URL (default $GVD_API_URL or "+gateway.DefaultBaseURL+")")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	logFile := flag.String("log-file", os.Getenv(logFileEnvVar), "append debug logs to this file")
	pollInterval := flag.Duration("poll-interval", status.PollInterval, "how often to refresh the backend status")
	flag.Parse()

	if *logFile != "" {
		f, err := tea.LogToFile(*logFile, "gvchat")
		if err != nil {
			fmt.Println("failed to open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	client, err := gateway.NewFromEnv(gateway.Config{BaseURL: *apiURL})
	if err != nil {
		fmt.Println("invalid backend configuration:", err)
		os.Exit(1)
	}
	log.Printf("[main] backend %s, poll every %s", client.Name(), pollInterval.Round(time.Second))

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Gateway:      client,
			PollInterval: *pollInterval,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}
