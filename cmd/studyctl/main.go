package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"studycompanion/internal/client"
	"studycompanion/internal/config"
	"studycompanion/internal/logger"
	"studycompanion/internal/models"
	"studycompanion/internal/session"
)

var errNotSignedIn = errors.New("not signed in")

type app struct {
	cfg        config.Config
	log        zerolog.Logger
	api        *client.Client
	store      *session.Store
	closeStore func() error
}

func main() {
	_ = godotenv.Load(".env")
	a := &app{cfg: config.Load()}
	if err := a.rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "studyctl",
		Short:        "Study companion client for students and teachers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closeStore != nil {
				return a.closeStore()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.cfg.APIBaseURL, "api", a.cfg.APIBaseURL, "API base URL")
	root.PersistentFlags().StringVar(&a.cfg.SessionBackend, "session-backend", a.cfg.SessionBackend, "session store: file, memory, bolt, redis, postgres")
	root.PersistentFlags().StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level")

	root.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.uploadCmd(),
		a.askCmd(),
		a.summaryCmd(),
		a.quizCmd(),
		a.paperCmd(),
		a.healthCmd(),
		a.boardCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.log = logger.New(logger.Config{Level: a.cfg.LogLevel, Pretty: a.cfg.LogPretty})
	a.api = client.New(a.cfg.APIBaseURL, client.WithLogger(a.log), client.WithUserAgent("studyctl"))

	backend, closeFn, err := session.Open(cmd.Context(), a.cfg)
	if err != nil {
		// Without a backend the store reads nil and ignores writes.
		a.log.Warn().Err(err).Str("backend", a.cfg.SessionBackend).Msg("session store unavailable")
	}
	a.closeStore = closeFn
	out := cmd.ErrOrStderr()
	a.store = session.NewStore(backend,
		session.WithLogger(a.log),
		session.WithNavigator(func(url string) {
			fmt.Fprintf(out, "Not signed in. Run `studyctl login` first (web: %s).\n", url)
		}),
	)
	return nil
}

// requestContext applies STUDY_REQUEST_TIMEOUT_SECONDS when set.
func (a *app) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.RequestTimeoutSec > 0 {
		return context.WithTimeout(ctx, time.Duration(a.cfg.RequestTimeoutSec)*time.Second)
	}
	return context.WithCancel(ctx)
}

func (a *app) requireUser(ctx context.Context) (*models.User, error) {
	u := a.store.RequireAuth(ctx, a.cfg.LoginRedirectURL)
	if u == nil {
		return nil, errNotSignedIn
	}
	return u, nil
}

// sessionID prefers the explicit flag, then the last upload.
func (a *app) sessionID(ctx context.Context, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if d := a.store.Document(ctx); d != nil && d.SessionID != "" {
		return d.SessionID, nil
	}
	return "", errors.New("no document uploaded yet; run `studyctl upload <file.pdf>` or pass --session")
}
