package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"chessrules/internal/cli"
	"chessrules/internal/processor"
	"chessrules/internal/service"
	"chessrules/internal/storage"
	"chessrules/internal/transport"
	clitransport "chessrules/internal/transport/cli"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

func main() {
	storagePath := flag.String("storage-path", "", "SQLite database path for game records (empty disables)")
	theme := flag.String("theme", "", "Board color theme: off, brown, green, gray (default brown on a terminal)")
	historyFile := flag.String("history", ".chess_history", "Readline history file")
	flag.Parse()

	var store *storage.Store
	if *storagePath != "" {
		var err error
		store, err = storage.NewStore(*storagePath, false)
		if err != nil {
			fmt.Printf("Failed to open storage: %v\n", err)
			os.Exit(1)
		}
		if err := store.InitDB(); err != nil {
			fmt.Printf("Failed to initialize schema: %v\n", err)
			os.Exit(1)
		}
	}

	svc, err := service.New(store)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer svc.Shutdown(2 * time.Second)

	proc, err := processor.New(svc, 1)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer proc.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     *historyFile,
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

	handler := clitransport.New(transport.NewLocal(proc), view)

	view.ShowWelcome()
	handler.Run()
}
