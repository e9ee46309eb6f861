package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

func main() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))

	if err := rootCmd.Execute(); err != nil {
		// Command errors are reported generically: the failure text must
		// not reveal whether a key resolved the true or the decoy path.
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}
