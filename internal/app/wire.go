package app

import (
	"net/http"

	"go.uber.org/zap"

	"trashmail/internal/api"
	"trashmail/internal/domain"
	aliassvc "trashmail/internal/services/alias"
	authsvc "trashmail/internal/services/auth"
	"trashmail/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Config   Config
	Log      *zap.Logger
	API      *api.Client
	Auth     domain.AuthService
	Aliases  domain.AliasService
	Sessions domain.SessionStore
	Accounts domain.AccountStore
	HTTP     *http.Client
}

// NewWire constructs the dependency graph from cfg. log may be nil.
func NewWire(cfg Config, log *zap.Logger) (*Wire, error) {
	if log == nil {
		log = zap.NewNop()
	}

	// File-based stores
	stores, err := store.Open(cfg.Home)
	if err != nil {
		return nil, err
	}

	// Ensure an HTTP client is available for outbound calls
	httpClient := cfg.HTTP
	if httpClient == nil {
		timeout, err := cfg.RequestTimeout()
		if err != nil {
			return nil, err
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	client, err := api.New(cfg.BaseURL,
		api.WithHTTPClient(httpClient),
		api.WithLang(cfg.Lang),
		api.WithLogger(log.Named("api")))
	if err != nil {
		return nil, err
	}

	// High-level services
	auth := authsvc.New(client, authsvc.WithLogger(log.Named("auth")))
	aliases := aliassvc.New(client, auth, log.Named("alias"))

	return &Wire{
		Config:   cfg,
		Log:      log,
		API:      client,
		Auth:     auth,
		Aliases:  aliases,
		Sessions: stores.Sessions,
		Accounts: stores.Accounts,
		HTTP:     httpClient,
	}, nil
}
