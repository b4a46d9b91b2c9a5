package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/chronopointe/pointage-go/internal/config"
	"github.com/chronopointe/pointage-go/internal/kiosk"
	"github.com/chronopointe/pointage-go/internal/kiosk/client"
	"github.com/chronopointe/pointage-go/internal/kiosk/confirm"
	"github.com/chronopointe/pointage-go/internal/kiosk/queue"
	"github.com/chronopointe/pointage-go/internal/kiosk/scan"
	"github.com/chronopointe/pointage-go/internal/kiosk/syncer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	if err := os.MkdirAll(cfg.Kiosk.DataDir, 0o755); err != nil {
		fmt.Println("Error creating data dir:", err)
		return
	}

	store, err := queue.Open(cfg.Kiosk.DataDir)
	if err != nil {
		fmt.Println("Error opening offline queue:", err)
		return
	}
	defer store.Close()

	hostname, _ := os.Hostname()
	apiClient := client.New(cfg.Kiosk.ServerURL, hostname, cfg.Kiosk.SubmitTimeout)

	blocks := scan.NewBlockList()
	validator := scan.NewValidator(blocks)
	machine := confirm.NewMachine()
	sync := syncer.New(store, apiClient, cfg.Kiosk.SyncInterval, cfg.Kiosk.AlertThreshold)
	controller := kiosk.NewController(validator, store, apiClient, machine, sync)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go blocks.Run(ctx)
	go sync.Run(ctx)
	go controller.WatchConnectivity(ctx)
	defer machine.Stop()

	router := kiosk.NewRouter(controller, store)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Kiosk.Port)
	server := &http.Server{Addr: addr, Handler: router}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	fmt.Printf("Kiosk agent running at http://%s\n", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Println("Kiosk agent error:", err)
	}
}
