// Command migrate applies or reverts the embedded schema migrations.
// The service applies them on start; this is for operators.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"sweet-shop/internal/config"
	"sweet-shop/internal/database"
)

var (
	loadConfig      = config.LoadDatabase
	runMigrationsFn = database.RunMigrations
	rollbackAllFn   = database.RollbackAll
	exitFunc        = os.Exit
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			exitFunc(0)
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitFunc(1)
	}
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: migrate [-force] up|down")
	fs.PrintDefaults()
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "Required for down: drops every table and its data")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		usage(stdout, fs)
		return fmt.Errorf("expected exactly one command: up or down")
	}

	cmd := fs.Arg(0)
	if cmd != "up" && cmd != "down" {
		usage(stdout, fs)
		return fmt.Errorf("unknown command %q", cmd)
	}
	if cmd == "down" && !*force {
		return fmt.Errorf("down drops all data; pass -force to confirm")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	switch cmd {
	case "up":
		if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		fmt.Fprintln(stdout, "Migrations applied")
	case "down":
		if err := rollbackAllFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		fmt.Fprintln(stdout, "Migrations rolled back")
	}
	return nil
}
