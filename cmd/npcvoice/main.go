package main

import (
	"fmt"
	"log/slog"
	"os"
)

var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		printUsage()
		return 0
	}

	sub := args[0]
	switch sub {
	case "speak":
		if err := cmdSpeak(args[1:]); err != nil {
			slog.Error("speak failed", "err", err)
			return 1
		}
		return 0
	case "version":
		fmt.Println(version)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n\n", sub)
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `npcvoice %s

Usage:
  npcvoice <subcommand> [flags]

Subcommands:
  speak    Generate one NPC dialogue line with audio from a scene file
  version  Print version

Run "npcvoice <subcommand> -h" for flags.
`, version)
}
