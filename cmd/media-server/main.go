package main

import (
	"log"
	"net/http"

	"mouselab/internal/common"
	"mouselab/internal/wire"
)

func main() {
	app, cleanup, err := wire.InitializeMediaApplication()
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer cleanup()

	port := app.Config.Server.MediaServicePort

	log.Printf("🚀 Media HTTP Server starting on port %s", port)
	log.Printf("📂 Serving files at: http://localhost:%s/media/{key}", port)

	if err := http.ListenAndServe(":"+port, common.LoggingMiddleware(app.Media)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
