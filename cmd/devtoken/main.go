// Command devtoken prints a signed bearer token for local testing.
//
//	go run ./cmd/devtoken -user 3f0c... -email admin@example.org -admin
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"conferenceportal/config"
	"conferenceportal/internal/adapters/auth"
	"conferenceportal/internal/domain"
)

func main() {
	userID := flag.String("user", "", "user id (default: random UUID)")
	emailAddr := flag.String("email", "dev@example.org", "email claim")
	admin := flag.Bool("admin", false, "grant the admin role")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}
	if *userID == "" {
		*userID = uuid.NewString()
	}
	var roles []string
	if *admin {
		roles = append(roles, domain.RoleAdmin)
	}

	token, err := auth.NewJWTIssuer(cfg.JWTSecret).Issue(*userID, *emailAddr, roles, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
