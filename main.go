package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/flashbot/internal/bot"
	"github.com/example/flashbot/internal/database"
	"github.com/example/flashbot/internal/practice"
	"github.com/example/flashbot/internal/scheduler"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	store := database.NewStore()
	practiceService := practice.NewService(store)

	b, err := bot.New(practiceService)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Background reminder pass, unless explicitly disabled
	var reminders *scheduler.Scheduler
	if os.Getenv("ENABLE_SCHEDULER") != "false" {
		reminders = scheduler.New(store, practiceService, b, scheduler.ConfigFromEnv())
		reminders.Start()
	}

	done := make(chan struct{})

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()

		if reminders != nil {
			reminders.Stop()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := b.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}

		close(done)
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	go func() {
		if err := b.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Bot error: %v", err)
		}
	}()

	<-done
	log.Println("Bot stopped successfully")
}
