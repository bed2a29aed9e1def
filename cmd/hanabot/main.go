package main

import (
	"github.com/fireworks-games/hanabot/internal/cli"
)

func main() {
	cli.Execute()
}
