package main

import (
	"log"
	"os"

	"github.com/futig/scrapbox-rag/internal/builder"
)

func main() {
	app, err := builder.BuildAPI(os.Args[1:])
	if err != nil {
		log.Fatal("Failed to build application:", err)
	}

	if err := app.Run(); err != nil {
		log.Fatal("Application error:", err)
	}
}
