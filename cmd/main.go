package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/lshigami/acebrainiac/config"
	"github.com/lshigami/acebrainiac/internal/controller"
	"github.com/lshigami/acebrainiac/internal/controller/admin"
	"github.com/lshigami/acebrainiac/internal/core"
	"github.com/lshigami/acebrainiac/internal/listing"
	"github.com/lshigami/acebrainiac/internal/logger"
	"github.com/lshigami/acebrainiac/internal/repository"
	"github.com/lshigami/acebrainiac/internal/service"
	"github.com/lshigami/acebrainiac/internal/session"
	"github.com/lshigami/acebrainiac/internal/transport"
)

func main() {
	var cli *commandLine

	app := fx.New(
		fx.NopLogger,

		// Core
		fx.Provide(
			config.NewConfig,
			NewSession,
			transport.NewClient,
			func(c *transport.Client) listing.Fetcher { return c },
		),

		// Repositories
		fx.Provide(
			repository.NewTestRepository,
			NewResources,
		),

		// Services
		fx.Provide(
			service.NewTestService,
			service.NewAuthService,
			service.NewDashboardService,
			service.NewTicketService,
		),

		// Controllers
		fx.Provide(
			NewLists,
			func() admin.Stager { return admin.NewTempStager("") },
			newCommandLine,
		),

		fx.Invoke(InitLogger),
		fx.Invoke(func(c *commandLine) { cli = c }),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintln(os.Stderr, "aceadmin:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	runErr := cli.run(ctx, os.Args)
	stop()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		log.Warn().Err(err).Msg("Shutdown did not complete cleanly")
	}

	switch {
	case runErr == nil:
	case runErr == errHelp:
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, core.Notice(runErr, runErr.Error()))
		os.Exit(1)
	}
}

// InitLogger applies the configured log level and format.
func InitLogger(cfg *config.Config) {
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
}

// NewSession restores the persisted token from the configured token file.
func NewSession(cfg *config.Config) (*session.Session, error) {
	sess, err := session.New(session.NewFileStore(cfg.Session.TokenFile))
	if err != nil {
		return nil, err
	}
	sess.OnExpire(func() {
		fmt.Fprintln(os.Stderr, "Session expired, run `aceadmin login` again.")
	})
	return sess, nil
}

// NewLists builds every list controller and closes them when the app stops.
func NewLists(lc fx.Lifecycle, f listing.Fetcher, cfg *config.Config) *controller.Lists {
	lists := controller.NewAllLists(f, cfg)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			lists.Close()
			log.Debug().Strs("lists", lists.Names()).Msg("List controllers closed")
			return nil
		},
	})
	return lists
}
