package main

import "github.com/pfrederiksen/retro-events/internal/cli"

func main() {
	cli.Execute()
}
