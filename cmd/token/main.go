// Command token mints an admin JWT for the village import endpoint, signed
// with the server's JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"travian-planner/internal/auth"
	"travian-planner/internal/shared/config"
)

func main() {
	subject := flag.String("subject", "admin", "token subject")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_EXPIRATION_HOURS)")
	flag.Parse()

	if err := config.Init(); err != nil {
		log.Fatal("Failed to initialize configuration:", err)
	}

	cfg := config.GlobalConfig.Auth
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = cfg.TokenExpiration
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, *subject, auth.RoleAdmin, lifetime)
	if err != nil {
		log.Fatal("Failed to generate token:", err)
	}

	fmt.Println(token)
	log.Printf("admin token for %q expires at %s", *subject, time.Now().Add(lifetime).Format(time.RFC3339))
}
