package main

import (
	"fmt"
	"os"

	"github.com/simkernel-go/simkernel/cmd/simkernel-mc/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
