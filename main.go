package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/oauth2"

	"fitdash/internal/auth"
	"fitdash/internal/coach"
	"fitdash/internal/config"
	"fitdash/internal/garmin"
	"fitdash/internal/logging"
	"fitdash/internal/service"
	"fitdash/internal/store"
	"fitdash/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	syncOnly := pflag.Bool("sync", false, "run a sync and exit without launching the dashboard")
	logLevel := pflag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	configPath := pflag.String("config", "", "path to the config file (default ~/.fitdash/config.json)")
	pflag.Parse()

	ctx := context.Background()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need to add your Garmin Connect API credentials.")
		fmt.Println("Get them from: https://developerportal.garmin.com")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	level := cfg.Logging.Level
	if *logLevel != "" {
		level = *logLevel
	}
	if configDir, err := config.GetConfigDir(); err == nil {
		logging.Setup(logging.SetupParams{
			LogFileName: filepath.Join(configDir, "fitdash"),
			LogLevel:    level,
		})
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Garmin.ClientID,
		ClientSecret: cfg.Garmin.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})

	storedAuth, err := db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Println("No authentication found. Starting OAuth flow...")
		if storedAuth, err = authenticate(ctx, db, oauthCfg); err != nil {
			return fmt.Errorf("authentication: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("checking auth: %w", err)
	}

	token := &oauth2.Token{
		AccessToken:  storedAuth.AccessToken,
		RefreshToken: storedAuth.RefreshToken,
		Expiry:       storedAuth.ExpiresAt,
	}

	tokenSource := auth.NewTokenSource(oauthCfg, token, func(newToken *oauth2.Token) error {
		return db.UpdateTokens(newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
	})

	// Verify the stored token still refreshes before starting the UI
	if _, err := tokenSource.Token(); err != nil {
		fmt.Println("Stored token is invalid or expired. Re-authenticating...")
		if storedAuth, err = authenticate(ctx, db, oauthCfg); err != nil {
			return fmt.Errorf("re-authentication: %w", err)
		}
		tokenSource = auth.NewTokenSource(oauthCfg, &oauth2.Token{
			AccessToken:  storedAuth.AccessToken,
			RefreshToken: storedAuth.RefreshToken,
			Expiry:       storedAuth.ExpiresAt,
		}, func(newToken *oauth2.Token) error {
			return db.UpdateTokens(newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
		})
	}

	client := garmin.NewClient(tokenSource)
	syncSvc := service.NewSyncService(client, db)
	querySvc := service.NewQueryService(db, cfg)
	adviser := coach.New(db, cfg.Coach.APIKey, cfg.Coach.Model,
		time.Duration(cfg.Coach.CacheTTLHours)*time.Hour)

	if *syncOnly {
		return runHeadlessSync(ctx, syncSvc)
	}

	app := tui.NewApp(db, syncSvc, querySvc, adviser)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// runHeadlessSync syncs without the dashboard, printing progress to
// stdout. Useful from cron.
func runHeadlessSync(ctx context.Context, syncSvc *service.SyncService) error {
	progress := make(chan service.SyncProgress, 64)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progress {
			switch p.Phase {
			case "activities":
				if p.Completed > 0 {
					fmt.Printf("\ractivities: %d fetched", p.Completed)
				}
			case "wellness":
				if p.Total > 0 {
					fmt.Printf("\rwellness: %d/%d days", p.Completed, p.Total)
				}
			}
		}
		fmt.Println()
	}()

	result, err := syncSvc.SyncAll(ctx, progress)
	<-done
	if err != nil {
		return err
	}

	fmt.Printf("Synced %d activities, %d wellness days\n", result.ActivitiesStored, result.WellnessDays)
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	return nil
}

func authenticate(ctx context.Context, db *store.DB, oauthCfg *oauth2.Config) (*store.Auth, error) {
	result, err := auth.Authenticate(ctx, oauthCfg)
	if err != nil {
		return nil, err
	}

	storedAuth := &store.Auth{
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}

	// The token response carries no identity, so ask the profile
	// endpoint who we are
	client := garmin.NewClient(oauth2.StaticTokenSource(result.Token))
	profile, err := client.GetUserProfile(ctx)
	if err == nil {
		storedAuth.ProfileID = profile.DisplayName
	}

	if err := db.SaveAuth(storedAuth); err != nil {
		return nil, fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	if storedAuth.ProfileID != "" {
		fmt.Printf("Successfully authenticated as %s!\n", storedAuth.ProfileID)
	} else {
		fmt.Println("Successfully authenticated!")
	}
	return storedAuth, nil
}
