package main

import (
	"os"

	"github.com/miguelfaf10/shot-box/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
