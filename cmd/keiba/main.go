package main

import (
	"os"

	"github.com/pfrederiksen/keiba-flat/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
