package main

import (
	"fmt"
	"os"

	"github.com/sandeepkv93/apolo/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "apolo failed: %v\n", err)
		os.Exit(1)
	}
}
