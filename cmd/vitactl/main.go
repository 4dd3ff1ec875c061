// Command vitactl runs maintenance tasks against the VitaCross database.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/vitacross/vitacross-api/internal/config"
	"github.com/vitacross/vitacross-api/internal/database"
	"github.com/vitacross/vitacross-api/internal/logging"
	"github.com/vitacross/vitacross-api/internal/services"
	"gorm.io/gorm"
)

const usage = `usage: vitactl <command> [flags]

commands:
  migrate       create or update all tables
  verify-db     check that every table exists
  list-users    print registered users
  make-admin    promote a user to admin, creating it when missing
`

func main() {
	logging.Setup("warn")

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "migrate":
		err = withDB(cfg, runMigrate)
	case "verify-db":
		err = withDB(cfg, runVerify)
	case "list-users":
		err = runListUsers(cfg, args)
	case "make-admin":
		err = runMakeAdmin(cfg, args)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func withDB(cfg *config.Config, fn func(db *gorm.DB) error) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()
	return fn(db)
}

func runMigrate(db *gorm.DB) error {
	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := services.NewCatalogService(db).SeedDefaults(); err != nil {
		return fmt.Errorf("seed services: %w", err)
	}
	if err := services.NewSettingsService(db).SeedDefaults(); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	fmt.Println("migration complete")
	return nil
}

func runVerify(db *gorm.DB) error {
	tables, err := database.Verify(db)
	for _, t := range tables {
		mark := "ok"
		if !t.Exists {
			mark = "MISSING"
		}
		fmt.Printf("%-24s %s\n", t.Table, mark)
	}
	return err
}

func runListUsers(cfg *config.Config, args []string) error {
	fs := pflag.NewFlagSet("list-users", pflag.ContinueOnError)
	limit := fs.Int("limit", 100, "maximum number of users to print")
	search := fs.StringP("search", "q", "", "filter by email or name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withDB(cfg, func(db *gorm.DB) error {
		resp, err := services.NewAdminService(db).ListUsers(*search, *limit, 0)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tLOGIN\tCREATED")
		for _, u := range resp.Data {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				u.ID, u.Email, u.Name, u.Role, u.LoginMethod, u.CreatedAt.Format("2006-01-02"))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("%d of %d users\n", len(resp.Data), resp.Total)
		return nil
	})
}

func runMakeAdmin(cfg *config.Config, args []string) error {
	fs := pflag.NewFlagSet("make-admin", pflag.ContinueOnError)
	email := fs.StringP("email", "e", "", "account email (required)")
	password := fs.StringP("password", "p", "", "password, used only when the account is created")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	return withDB(cfg, func(db *gorm.DB) error {
		user, created, err := services.NewAdminService(db).MakeAdmin(*email, *password)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("created admin %s (id %d)\n", user.Email, user.ID)
		} else {
			fmt.Printf("promoted %s (id %d) to admin\n", user.Email, user.ID)
		}
		return nil
	})
}
