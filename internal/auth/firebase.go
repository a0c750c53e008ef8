package auth

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/tripnest/tripnest-backend/config"
)

var firebaseScopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/firebase",
	"https://www.googleapis.com/auth/identitytoolkit",
	"https://www.googleapis.com/auth/userinfo.email",
}

// InitializeFirebase initializes the Firebase Admin SDK from the service role key and returns an Auth client.
// The key is either the service-account JSON itself or a path to it.
func InitializeFirebase(ctx context.Context, cfg *config.BackendConfig) (*auth.Client, error) {
	opt, err := credentialOption(ctx, cfg.ServiceRoleKey)
	if err != nil {
		return nil, err
	}

	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	return authClient, nil
}

func credentialOption(ctx context.Context, key string) (option.ClientOption, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("BACKEND_SERVICE_ROLE_KEY is required")
	}

	if strings.HasPrefix(key, "{") {
		creds, err := google.CredentialsFromJSON(ctx, []byte(key), firebaseScopes...)
		if err != nil {
			return nil, fmt.Errorf("invalid service role key: %w", err)
		}
		return option.WithCredentials(creds), nil
	}

	return option.WithCredentialsFile(key), nil
}
