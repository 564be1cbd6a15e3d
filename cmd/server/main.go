package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/asimsek-dev/quillpad/internal/api"
	"github.com/asimsek-dev/quillpad/internal/config"
	"github.com/asimsek-dev/quillpad/internal/repositories"
)

func main() {
	repositories.ConnectDatabase()

	r2 := config.Envs.R2
	if err := repositories.InitR2(r2.AccessKeyID, r2.SecretAccessKey, r2.AccountID, r2.BucketName, r2.Region); err != nil {
		log.Fatalf("Could not initialize object storage: %v", err)
	}

	mux := api.SetupRouter()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Envs.Port),
		Handler: mux,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting Quillpad server on port: %s", config.Envs.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", config.Envs.Port, err)
	}
}
