package main

import "github.com/pfrederiksen/schedule-watch/internal/cli"

func main() {
	cli.Execute()
}
