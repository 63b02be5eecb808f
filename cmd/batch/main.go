package main

import (
	"log"
	"os"

	"github.com/futig/scrapbox-rag/internal/builder"
)

func main() {
	batch, err := builder.BuildBatch(os.Args[1:])
	if err != nil {
		log.Fatal("Failed to build batch:", err)
	}

	if err := batch.Run(); err != nil {
		log.Fatal("Batch error:", err)
	}
}
