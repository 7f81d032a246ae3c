package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trashmail/internal/logging"
	"trashmail/internal/mockapi"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr    string
		users   []string
		pats    []string
		opaque  []string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "mockserver",
		Short: "In-memory TrashMail API for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.Options{Verbose: verbose, Level: "info"})
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			srv := mockapi.New(logger)
			passwords := map[string]string{}
			options := map[string][]mockapi.UserOption{}
			for _, u := range users {
				name, pass, ok := strings.Cut(u, ":")
				if !ok {
					return fmt.Errorf("--user %q: want name:password", u)
				}
				passwords[name] = pass
				if _, seen := options[name]; !seen {
					options[name] = nil
				}
			}
			for _, p := range pats {
				name, token, ok := strings.Cut(p, ":")
				if !ok {
					return fmt.Errorf("--pat %q: want name:token", p)
				}
				options[name] = append(options[name], mockapi.WithPAT(token))
			}
			for _, name := range opaque {
				options[name] = append(options[name], mockapi.WithOpaque())
			}
			for name, opts := range options {
				srv.AddUser(name, passwords[name], opts...)
			}
			return serve(cmd.Context(), logger, addr, mockapi.AccessLog(logger, srv))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringArrayVar(&users, "user", nil, "account as name:password (repeatable)")
	cmd.Flags().StringArrayVar(&pats, "pat", nil, "token-only account as name:tmpat_... (repeatable)")
	cmd.Flags().StringArrayVar(&opaque, "opaque-user", nil, "account reported as OPAQUE-enabled (repeatable)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func serve(ctx context.Context, log *zap.Logger, addr string, h http.Handler) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hs := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	log.Info("mock API listening", zap.String("addr", addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
