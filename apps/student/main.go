package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/dashboard"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/services/origin"
	"github.com/trezcool/darasa/syncbus"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "STUDENT : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	tokens := core.StaticToken(os.Getenv("DARASA_TOKEN"))
	client := origin.NewClient(conf, tokens)

	// sync layer: same-instance bus + cross-instance broadcast + poll
	bus := syncbus.NewBus()
	hub := syncbus.NewMemBroadcast()
	instance := hub.Attach()
	defer instance.Close()

	store := dashboard.NewStore()
	agg := dashboard.NewAggregator(client, store, conf, logger)

	// =========================================================================
	// Start

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	if err := agg.Start(bus, instance); err != nil {
		logger.Fatal(fmt.Sprintf("starting aggregator: %v", err), err)
	}
	defer agg.Stop()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
}
