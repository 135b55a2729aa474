package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"poetrade/scraper/internal/category"
	"poetrade/scraper/internal/config"
	"poetrade/scraper/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "poetrade",
		Short: "Trade API scraper with resumable progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup()
			if err != nil {
				return err
			}
			defer app.Close()
			return runMenu(cmd, app)
		},
	}

	root.AddCommand(sessionCmd(), aggregateCmd())
	return root
}

func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session <number>",
		Short: "Scrape one predefined category batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid session number %q", args[0])
			}

			app, err := setup()
			if err != nil {
				return err
			}
			defer app.Close()

			return app.Service.RunSession(cmd.Context(), number)
		},
	}
}

func aggregateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aggregate",
		Short: "Combine all category files into one deduplicated master file",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup()
			if err != nil {
				return err
			}
			defer app.Close()

			_, _, err = app.Service.Aggregate(cmd.Context())
			return err
		},
	}
}

func setup() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Info("Configuration loaded successfully")

	app, err := container.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	return app, nil
}

func runMenu(cmd *cobra.Command, app *container.Container) error {
	fmt.Println("Available sessions:")
	for _, s := range category.Sessions() {
		fmt.Printf("  %d. %-24s - %d searches\n", s.Number, s.Name, len(s.Categories))
	}
	fmt.Println("  6. Create master file (combine all)")
	fmt.Println("  0. Exit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nWhich session to run? (0-6): ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		choice := strings.TrimSpace(scanner.Text())

		switch choice {
		case "0":
			fmt.Println("Exiting...")
			return nil
		case "6":
			if _, _, err := app.Service.Aggregate(cmd.Context()); err != nil {
				log.Errorf("❌ Aggregation failed: %v", err)
			}
			return nil
		case "1", "2", "3", "4", "5":
			number, _ := strconv.Atoi(choice)
			if err := app.Service.RunSession(cmd.Context(), number); err != nil {
				log.Errorf("❌ Session %d failed: %v", number, err)
			}
			fmt.Println("\nDon't forget option 6 to create the master file!")
		default:
			fmt.Println("Invalid choice!")
		}
	}
}
