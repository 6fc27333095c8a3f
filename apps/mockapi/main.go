// Command mockapi serves a seeded in-memory SCM backend on mock.address.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	echoapi "github.com/vijayholve/scm-app-frontend/apps/mockapi/echo"
	inmemdb "github.com/vijayholve/scm-app-frontend/apps/mockapi/store"
	"github.com/vijayholve/scm-app-frontend/core"
	logsvc "github.com/vijayholve/scm-app-frontend/services/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.New(
		log.New(os.Stdout, "MOCK : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	db := inmemdb.Open()
	if err := inmemdb.Seed(db); err != nil {
		logger.Fatal(fmt.Sprintf("seeding database: %v", err), err)
		os.Exit(1)
	}

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Mock API initializing : version %q on %s", conf.Build, conf.Mock.Address))
	defer logger.Info("Mock API stopped")

	validate, translator := core.NewValidator()
	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		DB:         db,
		Validate:   validate,
		Translator: translator,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)
		os.Exit(1)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
