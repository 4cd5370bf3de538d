package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/vijay-prabhu/internmatch/internal/cli"
)

// Version information (set by build script)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// a missing .env is fine; it only supplies INTERNMATCH_* overrides
	_ = godotenv.Load()

	cli.SetVersionInfo(Version, Commit, BuildTime)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
