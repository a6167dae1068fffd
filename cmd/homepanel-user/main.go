// Command homepanel-user manages panel accounts offline, against the same
// store the server uses.
//
// Usage:
//
//	homepanel-user add --username NAME [--role admin|user] [--password PW]
//	homepanel-user passwd --username NAME [--password PW]
//	homepanel-user list
//
// Without --password the password is read from the first line of stdin.
//
// The server keeps its own copy of the accounts in memory and rewrites the
// store on every login, so stop it before running add or passwd. Changes
// made while it runs are overwritten.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ericfisherdev/homepanel/internal/adapter/driven/jsonfile"
	sqliteadapter "github.com/ericfisherdev/homepanel/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/homepanel/internal/application"
	"github.com/ericfisherdev/homepanel/internal/config"
	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		printUsage(stdout)
		return errors.New("missing subcommand")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch args[0] {
	case "add":
		return runAdd(cfg, args[1:], stdin, stdout)
	case "passwd":
		return runPasswd(cfg, args[1:], stdin, stdout)
	case "list":
		return runList(cfg, args[1:], stdout)
	case "-h", "--help", "help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stdout)
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage: homepanel-user <command> [flags]

Commands:
  add     create an account
  passwd  replace an account's password
  list    show existing accounts

Store selection follows HOMEPANEL_STORE, HOMEPANEL_USERS_PATH and
HOMEPANEL_DB_PATH unless overridden with --store, --users or --db.

Stop the homepanel server before add or passwd. It holds the accounts in
memory and its next write replaces whatever this tool saved.
`)
}

// storeFlags registers the shared store override flags on flags.
func storeFlags(flags *pflag.FlagSet, cfg *config.Config) {
	flags.StringVar(&cfg.Store, "store", cfg.Store, "user store backend (json or sqlite)")
	flags.StringVar(&cfg.UsersPath, "users", cfg.UsersPath, "path to users.json")
	flags.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite database")
}

func runAdd(cfg *config.Config, args []string, stdin io.Reader, stdout io.Writer) error {
	flags := pflag.NewFlagSet("homepanel-user add", pflag.ContinueOnError)
	var username, role, password string
	flags.StringVarP(&username, "username", "u", "", "account name (required)")
	flags.StringVarP(&role, "role", "r", string(model.RoleUser), "account role (admin or user)")
	flags.StringVarP(&password, "password", "p", "", "account password (read from stdin when empty)")
	storeFlags(flags, cfg)
	if err := flags.Parse(args); err != nil {
		return err
	}

	role = strings.ToLower(role)
	err := withCredentials(cfg, username, &password, stdin, func(ctx context.Context, creds *application.CredentialService) error {
		return creds.AddUser(ctx, username, password, model.Role(role))
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "created %s (%s)\n", username, role)
	return nil
}

func runPasswd(cfg *config.Config, args []string, stdin io.Reader, stdout io.Writer) error {
	flags := pflag.NewFlagSet("homepanel-user passwd", pflag.ContinueOnError)
	var username, password string
	flags.StringVarP(&username, "username", "u", "", "account name (required)")
	flags.StringVarP(&password, "password", "p", "", "new password (read from stdin when empty)")
	storeFlags(flags, cfg)
	if err := flags.Parse(args); err != nil {
		return err
	}

	err := withCredentials(cfg, username, &password, stdin, func(ctx context.Context, creds *application.CredentialService) error {
		return creds.ResetPassword(ctx, username, password)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "password updated for %s\n", username)
	return nil
}

// withCredentials checks the common flags, reads the password if needed and
// runs fn against a loaded CredentialService.
func withCredentials(cfg *config.Config, username string, password *string, stdin io.Reader, fn func(context.Context, *application.CredentialService) error) error {
	if username == "" {
		return errors.New("--username is required")
	}
	if *password == "" {
		pw, err := readPassword(stdin)
		if err != nil {
			return err
		}
		*password = pw
	}

	store, closeStore, err := openUserStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	creds := application.NewCredentialService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	creds.Load(ctx)
	return fn(ctx, creds)
}

func runList(cfg *config.Config, args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("homepanel-user list", pflag.ContinueOnError)
	storeFlags(flags, cfg)
	if err := flags.Parse(args); err != nil {
		return err
	}

	store, closeStore, err := openUserStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	users, err := store.LoadUsers(context.Background())
	if errors.Is(err, driven.ErrStoreNotFound) {
		fmt.Fprintln(stdout, "no users")
		return nil
	}
	if err != nil {
		return err
	}

	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tROLE\tCREATED\tLAST LOGIN")
	for _, name := range names {
		u := users[name]
		lastLogin := "never"
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Username, u.Role, u.CreatedAt.Format("2006-01-02 15:04"), lastLogin)
	}
	return tw.Flush()
}

// openUserStore returns the configured UserStore and a function releasing it.
func openUserStore(cfg *config.Config) (driven.UserStore, func(), error) {
	switch strings.ToLower(cfg.Store) {
	case config.StoreJSON:
		return jsonfile.NewUserStore(cfg.UsersPath), func() {}, nil
	case config.StoreSQLite:
		db, err := sqliteadapter.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		return sqliteadapter.NewUserRepo(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password")
	}
	return password, nil
}
