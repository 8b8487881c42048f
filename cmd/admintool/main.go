// Command admintool performs operator tasks against the server database:
// creating admin accounts and wiring friendships directly. It talks to
// storage, not to the HTTP API, so it works before the first admin exists.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/sealedchat/sealedchat/internal/common"
	"github.com/sealedchat/sealedchat/internal/server/config"
	"github.com/sealedchat/sealedchat/internal/server/repositories/repomanager"
	"github.com/sealedchat/sealedchat/internal/server/services"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func getPassword() ([]byte, error) {
	fmt.Print("Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}
	return pw, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admintool <create-admin|add-friendship> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	ctx := context.Background()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.DatabaseDSN = dsn
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	us := services.NewUserService(db, rm, nil, cfg)
	cs := services.NewChatService(db, rm, nil)

	switch os.Args[1] {
	case "create-admin":
		err = createAdmin(ctx, us, os.Args[2:])
	case "add-friendship":
		err = addFriendship(ctx, db, rm, cs, os.Args[2:])
	default:
		usage()
	}

	if err != nil {
		log.Fatalf("%v", err)
	}
}

func createAdmin(ctx context.Context, us *services.UserService, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	name := fs.String("n", "", "display name")
	email := fs.String("e", "", "email address")
	fs.Parse(args)

	if *email == "" {
		return fmt.Errorf("email is required")
	}

	pw, err := getPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	user, err := us.Register(ctx, *name, *email, string(pw))
	if err != nil {
		return err
	}

	isAdmin := true
	if _, err := us.Update(ctx, user.ID, services.AdminUpdate{IsAdmin: &isAdmin}); err != nil {
		return err
	}

	fmt.Printf("admin created: %s (%s)\n", user.Email, user.ID)
	return nil
}

func addFriendship(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, cs *services.ChatService, args []string) error {
	fs := flag.NewFlagSet("add-friendship", flag.ExitOnError)
	first := fs.String("a", "", "first user's email")
	second := fs.String("b", "", "second user's email")
	fs.Parse(args)

	if *first == "" || *second == "" {
		return fmt.Errorf("both emails are required")
	}

	repo := rm.Users(db)
	a, err := repo.GetByEmail(ctx, services.NormalizeEmail(*first))
	if err != nil {
		return fmt.Errorf("lookup %s: %w", *first, err)
	}
	b, err := repo.GetByEmail(ctx, services.NormalizeEmail(*second))
	if err != nil {
		return fmt.Errorf("lookup %s: %w", *second, err)
	}

	if _, err := cs.AddFriend(ctx, a.ID, b.ID); err != nil {
		return err
	}

	fmt.Printf("friendship added: %s <-> %s\n", a.Email, b.Email)
	return nil
}
