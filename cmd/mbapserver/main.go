package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Moonlight-Companies/mbapserver/common"
	"github.com/Moonlight-Companies/mbapserver/logging"
	"github.com/Moonlight-Companies/mbapserver/mbap"
	"github.com/Moonlight-Companies/mbapserver/model"
	"github.com/Moonlight-Companies/mbapserver/server"
)

// Default device layout: all four address spaces span addresses 0-14 and
// every holding register accepts values in [0, 200]
const (
	maxCoils            = 15
	maxDiscreteInputs   = 15
	maxInputRegisters   = 15
	maxHoldingRegisters = 15

	holdingLowerLimit = 0
	holdingUpperLimit = 200
)

func main() {
	// Parse command line flags
	address := flag.String("address", "0.0.0.0", "Server address to bind to")
	port := flag.Int("port", common.DefaultTCPPort, "TCP port to listen on")
	debug := flag.Bool("debug", false, "Enable debug logging")
	readOnly := flag.Bool("read-only", false, "Disable all write function codes")
	preloadData := flag.Bool("preload", true, "Preload some example data in the memory store")
	flag.Parse()

	// Create a logger
	logLevel := common.LevelInfo
	if *debug {
		logLevel = common.LevelDebug
	}
	logger := logging.NewLogger(logging.WithLevel(logLevel))

	// Create context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create the memory-backed store and seed it
	store := model.NewMemoryStore(maxCoils, maxDiscreteInputs, maxInputRegisters, maxHoldingRegisters)
	if *preloadData {
		preloadSampleData(store)
	}

	lower := make([]int16, maxHoldingRegisters)
	upper := make([]int16, maxHoldingRegisters)
	for i := range upper {
		lower[i] = holdingLowerLimit
		upper[i] = holdingUpperLimit
	}

	dataModel := &model.DataModel{
		Coils:            model.Window{Start: 0, Count: maxCoils},
		DiscreteInputs:   model.Window{Start: 0, Count: maxDiscreteInputs},
		InputRegisters:   model.Window{Start: 0, Count: maxInputRegisters},
		HoldingRegisters: model.Window{Start: 0, Count: maxHoldingRegisters},
		HoldingLower:     lower,
		HoldingUpper:     upper,
		Store:            store,
	}

	codecOptions := []mbap.Option{mbap.WithLogger(logger)}
	if *readOnly {
		codecOptions = append(codecOptions,
			mbap.WithoutFunction(common.FuncWriteSingleCoil),
			mbap.WithoutFunction(common.FuncWriteSingleRegister),
			mbap.WithoutFunction(common.FuncWriteMultipleCoils),
			mbap.WithoutFunction(common.FuncWriteMultipleRegisters),
		)
	}

	codec, err := mbap.NewCodec(dataModel, codecOptions...)
	if err != nil {
		logger.Error(ctx, "Invalid data model: %v", err)
		os.Exit(1)
	}

	// Create TCP server
	modbusServer := server.NewTCPServer(
		*address,
		codec,
		server.WithServerPort(*port),
		server.WithServerLogger(logger),
	)

	// Setup signal handler for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info(ctx, "Received shutdown signal, stopping server...")
		if err := modbusServer.Stop(ctx); err != nil {
			logger.Error(ctx, "Error stopping server: %v", err)
		}
		cancel()
	}()

	// Start the server
	logger.Info(ctx, "Starting Modbus TCP server on %s:%d...", *address, *port)
	if err := modbusServer.Start(ctx); err != nil {
		logger.Error(ctx, "Failed to start server: %v", err)
		os.Exit(1)
	}

	// Periodically dump the store content and connection stats when debugging
	if *debug {
		go func() {
			tick := time.NewTicker(10 * time.Second)
			defer tick.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-tick.C:
					fmt.Println(store.DumpRegisters())
					for _, client := range modbusServer.ConnectedClients() {
						fmt.Println(client)
					}
				}
			}
		}()
	}

	<-ctx.Done()
}

// preloadSampleData seeds the store with a small recognizable data set
func preloadSampleData(store *model.MemoryStore) {
	store.LoadInputRegisters([]int16{1, 2, 3})
	store.LoadHoldingRegisters([]int16{5, 6, 7})
	store.LoadDiscreteInputBytes([]byte{0xEF})
	store.LoadCoilBytes([]byte{0x05})
}
