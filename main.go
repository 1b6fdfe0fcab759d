package main

import (
	"fmt"
	"os"

	"github.com/lodestone-ai/lodestone/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lodestone:", err)
		os.Exit(1)
	}
}
