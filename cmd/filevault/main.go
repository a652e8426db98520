package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/keshon/filevault/internal/cli"
	_ "github.com/keshon/filevault/internal/command/archive"
	_ "github.com/keshon/filevault/internal/command/runs"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if os.Getenv("FILEVAULT_DEBUG") != "" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: filevault <command> [args...]")
		fmt.Println("Available commands:")
		for _, cmd := range cli.AllCommands() {
			fmt.Printf("  %s: %s\n", cmd.Name(), cmd.Brief())
		}
		os.Exit(0)
	}

	cmdName := os.Args[1]
	cmd, ok := cli.GetCommand(cmdName)
	if !ok {
		fmt.Printf("Unknown command: %s\n", cmdName)
		os.Exit(1)
	}

	ctx := &cli.Context{
		Args: os.Args[2:],
	}

	if err := cmd.Run(ctx); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
