package main

import (
	"log/slog"

	"pfeifer.dev/mtsc/cli"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelError)
	cli.Handle()
}
