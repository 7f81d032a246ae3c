package main

import (
	"os"

	"trashmail/cmd/trashmail/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
