// Command quotareset zeroes every user's daily received-message counter.
// By default it stays resident and fires at quota.reset_time each day;
// with -once it resets immediately and exits. The bot itself never runs
// this schedule.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	coredatabase "github.com/m3rciful/whisperbot/core/database"
	"github.com/m3rciful/whisperbot/core/logger"
	"github.com/m3rciful/whisperbot/internal/config"
	"github.com/m3rciful/whisperbot/internal/schedule"
	"github.com/m3rciful/whisperbot/internal/service"
	"github.com/m3rciful/whisperbot/internal/storage"
)

func main() {
	once := flag.Bool("once", false, "reset counters immediately and exit")
	flag.Parse()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("quotareset: config: %v", err)
	}

	if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
		log.Fatalf("quotareset: logger: %v", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("quotareset: logger shutdown: %v", err)
		}
	}()

	db, err := coredatabase.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("quotareset: db: %v", err)
	}
	defer db.Close()

	users := service.NewUsers(storage.NewUserRepository(db), cfg.Limits())

	reset := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := users.ResetAllCounters(ctx); err != nil {
			log.Printf("quotareset: reset: %v", err)
		}
	}

	if *once {
		reset()
		return
	}

	sched := schedule.New(time.Local)
	if _, err := sched.Daily(cfg.Quota.ResetTime, reset); err != nil {
		log.Fatalf("quotareset: schedule: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}
