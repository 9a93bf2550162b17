package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"ecom_back_end/internal/config"
	"ecom_back_end/internal/middleware"
)

// Génère un bearer token de développement signé avec JWT_SECRET
func main() {
	userID := flag.String("user", "", "identifiant utilisateur (user_id)")
	email := flag.String("email", "", "e-mail optionnel")
	ttl := flag.Duration("ttl", 24*time.Hour, "durée de validité")
	flag.Parse()

	config.Load()
	cfg := config.FromEnv()
	if *userID == "" || cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "usage: devtoken -user <id> (JWT_SECRET requis)")
		os.Exit(2)
	}

	token, err := middleware.IssueToken([]byte(cfg.JWTSecret), *userID, *email, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
