package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-jobly"
	"github.com/goliatone/go-jobly/config"
	"github.com/goliatone/go-jobly/repository"
)

func main() {
	flags := config.Flags("joblyd")
	promote := flags.String("promote", "", "toggle the admin flag of the given user and exit")
	rollback := flags.Bool("rollback", false, "roll back the last applied migration group and exit")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("invalid arguments: %v", err)
	}

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path, flags)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	log.SetLevel(cfg.LogLevel())
	logger := jobly.NewLogger("JOBLY ")
	jobly.DumpConfig(logger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	defer db.Close()

	if *rollback {
		group, err := repository.Rollback(ctx, db, jobly.GetMigrationsFS())
		if err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		log.Infof("rolled back %s", group)
		return
	}

	group, err := repository.Migrate(ctx, db, jobly.GetMigrationsFS())
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if !group.IsZero() {
		log.Infof("applied %s", group)
	}

	hasher := jobly.NewBcryptHasher(cfg.GetBcryptCost())
	repo := jobly.NewRepositoryManager(db, hasher)
	repo.MustValidate()

	if *promote != "" {
		user, err := repo.Users().ToggleAdmin(ctx, *promote)
		if err != nil {
			log.Fatalf("promote failed: %v", err)
		}
		log.Infof("user %q is_admin=%t", user.Username, user.IsAdmin)
		return
	}

	tokens := jobly.TokenServiceFromConfig(cfg, logger)
	guards := jobly.GuardsFromConfig(cfg, tokens, logger)
	auther := jobly.NewAuthenticator(repo.Users(), hasher, tokens).WithLogger(logger)

	app := jobly.NewApp(jobly.AppOptions{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Logger:       logger,
		AccessLog:    cfg.Log.AccessLog,
	})
	jobly.RegisterRoutes(app, jobly.NewController(repo, guards, auther,
		jobly.WithControllerLogger(logger),
	))

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("shutdown error: %v", err)
		}
	}()

	log.Infof("listening on %s", cfg.Server.Address)
	if err := app.Listen(cfg.Server.Address); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
