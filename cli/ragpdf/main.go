package main

import (
	"os"

	ragpdfcmder "github.com/0xdany/RAG-PDF-URLs/cmd/ragpdf"
)

func main() {
	cmd := ragpdfcmder.NewRagpdfCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
