package main

import (
	"os"

	"github.com/JWangZhi/Bybass-Subtitile/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
