package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "evoctl",
	Short: "CLI for the Darwin-Kropotkin evolutionary prompt engine",
	Long: `evoctl drives the evolutionary prompt engine from the command line.

It breeds a population of prompt configurations across generations,
alternating (or fixing) the selection strategy between competitive
Darwin selection and cooperative Kropotkin selection with a shared
knowledge commons, and reports fitness and commons statistics as the
run progresses.`,
	Version: "0.1.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
