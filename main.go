package main

import (
	"log"

	"github.com/docustack/retriever/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
