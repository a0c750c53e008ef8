package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tripnest/tripnest-backend/config"
	"github.com/tripnest/tripnest-backend/internal/bootstrap"
	"github.com/tripnest/tripnest-backend/internal/worker"
)

var errUsage = errors.New("usage: worker audit | schedule | todos <userID>")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}
	switch args[0] {
	case "audit", "schedule":
	case "todos":
		if len(args) < 2 {
			return errUsage
		}
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	w, err := bootstrap.NewWorker(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize worker: %w", err)
	}
	defer w.Close()

	switch args[0] {
	case "audit":
		if _, err := worker.NewScheduler(cfg.Worker.LinkageAuditSchedule, w.Profiles).RunOnce(ctx); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		return nil
	case "schedule":
		return runSchedule(cfg, w)
	default:
		return dumpTodos(ctx, w, args[1], out)
	}
}

func runSchedule(cfg *config.Config, w *bootstrap.Worker) error {
	s := worker.NewScheduler(cfg.Worker.LinkageAuditSchedule, w.Profiles)
	if err := s.Start(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	s.Stop()
	return nil
}

func dumpTodos(ctx context.Context, w *bootstrap.Worker, userID string, out io.Writer) error {
	todos, err := w.Todos.GetUserTodosServer(ctx, userID)
	if err != nil {
		return fmt.Errorf("todos for %s: %w", userID, err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(todos)
}
