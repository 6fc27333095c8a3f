package main

import (
	"context"
	"log"
	"os"

	"github.com/vijayholve/scm-app-frontend/core"
	"github.com/vijayholve/scm-app-frontend/core/session"
	"github.com/vijayholve/scm-app-frontend/services/api"
	logsvc "github.com/vijayholve/scm-app-frontend/services/logger"
	sessionstore "github.com/vijayholve/scm-app-frontend/storage/session"
)

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()
	std := log.New(os.Stderr, "SCM : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.New(std, conf)

	// set up session store
	ctx := context.Background()
	store, closer, err := sessionstore.Open(ctx, conf)
	if err != nil {
		logger.Fatal("opening session store", err)
	}
	defer closer.Close()

	sessions := session.NewManager(store, logger)
	if err = sessions.Load(ctx); err != nil {
		logger.Warn("loading session", err)
	}

	// start CLI
	cli := newCommandLine(api.New(conf, sessions, api.WithLogger(logger)), sessions, os.Stdin, os.Stdout)
	cli.pageSize = conf.List.PageSize
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", err)
		}
		closer.Close()
		os.Exit(1)
	}
}
