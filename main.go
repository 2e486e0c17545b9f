package main

import (
	"os"

	"github.com/ghbaekdev/front-3rd-chapter3-1/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
