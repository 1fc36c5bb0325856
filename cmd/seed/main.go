// Command seed creates a demo account with automations, posts and DMs and
// prints a development bearer token for it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"autonation/internal/bootstrap"
	"autonation/internal/config"
	"autonation/internal/identity"
	"autonation/internal/seed"
)

func main() {
	presetPath := flag.String("preset", "", "YAML preset file (defaults to the built-in demo account)")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the printed development token")
	flag.Parse()

	if err := run(*presetPath, *tokenTTL); err != nil {
		log.Fatal(err)
	}
}

func run(presetPath string, tokenTTL time.Duration) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.IsProduction() {
		return fmt.Errorf("refusing to seed in %s", cfg.Env)
	}

	preset := seed.DefaultPreset()
	if presetPath != "" {
		if preset, err = seed.LoadPreset(presetPath); err != nil {
			return err
		}
		log.Printf("Applying preset: %s", presetPath)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{ApplySchema: true})
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	res, err := seed.Run(ctx, rt.DB, preset)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	log.Printf("seeded user %s (%s): %d automations, %d posts, %d dms",
		res.User.ClerkID, res.User.ID, res.Automations, res.Posts, res.Dms)

	if cfg.AuthMode != config.AuthModeHMAC {
		log.Printf("AUTH_MODE=%s; sign in through the identity provider as %s", cfg.AuthMode, preset.Subject)
		return nil
	}
	token, err := identity.SignHMACToken(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, identity.Claims{
		Subject:   preset.Subject,
		Email:     preset.Email,
		FirstName: preset.FirstName,
		LastName:  preset.LastName,
	}, tokenTTL)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	fmt.Println(token)
	return nil
}
