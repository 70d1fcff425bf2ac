package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"tasktracker/connection"
	"tasktracker/services"
)

func main() {
	cfg, err := connection.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if len(os.Args) > 1 {
		if err := runCommand(cfg, os.Args[1:]); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := connection.StartServer(cfg); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// runCommand handles admin subcommands that have no HTTP route.
func runCommand(cfg connection.Config, args []string) error {
	switch args[0] {
	case "delete-user":
		if len(args) != 2 {
			return fmt.Errorf("usage: tasktracker delete-user <username>")
		}
		ctx := context.Background()
		store, err := connection.OpenStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		auth := services.NewAuthService(store, services.NewBcryptHasher())
		if err := auth.DeleteUser(ctx, args[1]); err != nil {
			return fmt.Errorf("delete-user %q: %w", args[1], err)
		}
		log.Printf("deleted user %q with their tasks and comments", args[1])
		return nil
	}
	return fmt.Errorf("unknown command %q", args[0])
}
