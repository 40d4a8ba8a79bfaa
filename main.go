package main

import (
	"os"

	"github.com/goinsights/goinsights/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
