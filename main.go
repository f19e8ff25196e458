package main

import (
	"os"

	"github.com/Nitinadonis1/Weather---app/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
