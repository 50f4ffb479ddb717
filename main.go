package main

import (
	"os"

	"github.com/abhisek/todomon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
