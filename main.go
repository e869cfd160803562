package main

import (
	"os"

	"github.com/founderhub/founderhub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
