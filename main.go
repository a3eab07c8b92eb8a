package main

import (
	"log"

	"github.com/kilianp07/stripboard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("stripboard: %v", err)
	}
}
