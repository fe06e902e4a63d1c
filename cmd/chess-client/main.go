// Package main is a terminal client that plays games on a remote chess
// server through its JSON API.
package main

import (
	"flag"
	"fmt"
	"os"

	"chessrules/internal/cli"
	"chessrules/internal/client/api"
	clitransport "chessrules/internal/transport/cli"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "Chess server base URL")
	theme := flag.String("theme", "", "Board color theme: off, brown, green, gray (default brown on a terminal)")
	verbose := flag.Bool("v", false, "Log every API request")
	flag.Parse()

	client := api.New(*apiURL)
	client.Verbose = *verbose

	health, err := client.Health()
	if err != nil {
		fmt.Printf("Cannot reach server at %s: %v\n", *apiURL, err)
		os.Exit(1)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     ".chess_client_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("Failed to start line editor: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	view := cli.New(rl, rl.Stdout())

	selected := cli.ThemeOff
	if term.IsTerminal(int(os.Stdout.Fd())) {
		selected = cli.ThemeBrown
	}
	if *theme != "" {
		selected = cli.ColorTheme(*theme)
	}
	if err := view.SetTheme(selected); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	view.ShowMessage(fmt.Sprintf("Connected to %s (storage: %s)", *apiURL, health.Storage))
	view.ShowWelcome()

	clitransport.New(client, view).Run()
}
