package main

import (
	"fmt"
	"os"

	"github.com/takumi/carte/internal/app"
)

func main() {
	if err := app.Run(os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "carte: %v\n", err)
		os.Exit(1)
	}
}
