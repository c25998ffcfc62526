package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"firstline/internal/config"
	"firstline/internal/pkg/supabase"
	"firstline/pkg/client"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	signup := flag.Bool("signup", false, "create the account instead of signing in")
	hook := flag.String("hook", "", "hook to analyze (omit to only show usage)")
	server := flag.String("server", "http://localhost:8080", "firstline API base URL")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	auth := supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	sessions := supabase.NewSessionManager(auth)

	unsubscribe := sessions.Subscribe(func(ev supabase.Event) {
		log.Printf("session: %s", ev.Kind)
	})
	defer unsubscribe()

	ctx := context.Background()

	var session *supabase.Session
	if *signup {
		session, err = sessions.SignUp(ctx, *email, *password)
	} else {
		session, err = sessions.SignIn(ctx, *email, *password)
	}
	if err != nil {
		log.Fatalf("Authentication failed: %v", err)
	}

	if session.AccessToken == "" {
		log.Fatal("No session token issued; confirm the account email first")
	}

	api := client.New(*server, session.AccessToken)

	usage, err := api.GetUsage(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch usage: %v", err)
	}
	fmt.Printf("Usage today: %d/%d\n", usage.Count, usage.Limit)

	if *hook != "" {
		if remaining := client.RemainingChars(*hook); remaining < 0 {
			log.Fatalf("Hook is %d characters over the limit", -remaining)
		}

		analysis, err := api.Analyze(ctx, *hook)
		if err != nil {
			log.Fatalf("Analysis failed: %v", err)
		}

		fmt.Println()
		fmt.Println(analysis)
	}

	if err := sessions.SignOut(ctx); err != nil {
		log.Printf("Sign out failed: %v", err)
	}
}
