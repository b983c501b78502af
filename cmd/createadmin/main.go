// Command createadmin creates an admin account. The HTTP API only ever
// registers regular users.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"sweet-shop/internal/apperror"
	"sweet-shop/internal/config"
	"sweet-shop/internal/database"
	"sweet-shop/internal/model"
	"sweet-shop/internal/service"

	"golang.org/x/term"
)

const createTimeout = 30 * time.Second

var (
	loadConfig      = config.LoadDatabase
	newPgxPool      = database.NewPgxPool
	runMigrationsFn = database.RunMigrations
	createAdmin     = func(ctx context.Context, db database.DB, bcryptCost int, email, password, name string) (*model.User, error) {
		return service.NewAuthService(db, nil, bcryptCost, nil, nil).CreateAdmin(ctx, email, password, name)
	}
	exitFunc = os.Exit
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			exitFunc(0)
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitFunc(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Admin email")
	name := fs.String("name", "Admin", "Display name")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*email) == "" {
		fmt.Fprintln(stdout, "Usage: createadmin -email <email> [-name <name>] [-password <password>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), createTimeout)
	defer cancel()

	db, err := newPgxPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	u, err := createAdmin(ctx, db, cfg.BcryptCost, *email, password, *name)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			return fmt.Errorf("create admin: %w", err)
		}
		return errors.New(apperror.PublicMessage(err))
	}

	fmt.Fprintf(stdout, "Admin %s created with ID %d\n", u.Email, u.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
