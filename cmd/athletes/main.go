package main

import (
	"fmt"
	"os"

	"athletepulse/cmd/athletes/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
