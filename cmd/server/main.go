package main

import (
	"log"

	"github.com/ca27people/backend/internal/transport/http"
)

func main() {
	if err := http.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
