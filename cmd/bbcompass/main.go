package main

import (
	"log"
	"os"

	"github.com/relabs-tech/bbox_compass/internal/app"
)

func main() {
	if err := app.RunCompass(os.Args[1:]); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
