package main

import (
	"dolarwatch/internal/cli"
)

func main() {
	cli.Run()
}
