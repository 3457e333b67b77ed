// Command migrate applies the SQL schema migrations. The database URL comes
// from the same configuration as the server, so a .env works for both.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/openwaves/openwaves-backend/internal/config"
)

func main() {
	dir := flag.String("path", "migrations", "directory holding the migration files")
	steps := flag.Int("steps", 0, "limit up/down to N steps (0 = all)")
	flag.Parse()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	m, err := migrate.New("file://"+*dir, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open migrations: %v", err)
	}
	defer m.Close()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = run(m.Up, m.Steps, *steps)
	case "down":
		err = run(m.Down, m.Steps, -*steps)
	case "version":
		var v uint
		var dirty bool
		if v, dirty, err = m.Version(); err == nil {
			fmt.Printf("version %d (dirty: %t)\n", v, dirty)
		}
	case "force":
		if flag.NArg() < 2 {
			log.Fatal("force requires a version argument")
		}
		var v int
		if v, err = strconv.Atoi(flag.Arg(1)); err != nil {
			log.Fatalf("bad version %q: %v", flag.Arg(1), err)
		}
		if err = m.Force(v); err == nil {
			fmt.Printf("forced version to %d\n", v)
		}
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

// run applies all migrations, or only n steps when a limit was given.
func run(all func() error, stepped func(int) error, n int) error {
	var err error
	if n == 0 {
		err = all()
	} else {
		err = stepped(n)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("no change")
		return nil
	}
	if err == nil {
		fmt.Println("done")
	}
	return err
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate [-path dir] [-steps n] <up|down|version|force <version>>")
	flag.PrintDefaults()
}
