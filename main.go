package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"burger/pkg/app"
	"burger/pkg/domain/model"
	"burger/transport"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg, err := app.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	cliApp := &cli.App{
		Name:  "burger",
		Usage: "assemble burgers and track orders against the Stellar Burgers API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Value: cfg.APIURL, Usage: "base URL of the Stellar Burgers API"},
			&cli.StringFlag{Name: "token-file", Value: cfg.TokenFile, Usage: "file keeping the session tokens, empty keeps them in memory"},
			&cli.StringFlag{Name: "log-level", Value: cfg.LogLevel},
			&cli.BoolFlag{Name: "strict", Value: cfg.ResolverStrict, Usage: "resolve order numbers only against matching orders"},
		},
		Before: func(c *cli.Context) error {
			cfg.APIURL = c.String("api-url")
			cfg.TokenFile = c.String("token-file")
			cfg.LogLevel = c.String("log-level")
			cfg.ResolverStrict = c.Bool("strict")

			level, err := log.ParseLevel(cfg.LogLevel)
			if err != nil {
				return errors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
			}
			log.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the local HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "listen", Value: cfg.ListenAddr},
				},
				Action: func(c *cli.Context) error {
					return serve(c.Context, cfg, c.String("listen"))
				},
			},
			{
				Name:  "catalog",
				Usage: "print the ingredient catalog",
				Action: func(c *cli.Context) error {
					a := app.NewFromConfig(cfg)
					if err := a.Catalog.Load(c.Context); err != nil {
						return err
					}
					return printJSON(a.Catalog.Parts())
				},
			},
			{
				Name:  "feed",
				Usage: "print the public order feed",
				Action: func(c *cli.Context) error {
					snapshot, err := app.NewFromConfig(cfg).Feed.Refresh(c.Context)
					if err != nil {
						return err
					}
					return printJSON(snapshot)
				},
			},
			{
				Name:      "order",
				Usage:     "print one order by its number",
				ArgsUsage: "<number>",
				Action: func(c *cli.Context) error {
					number, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return errors.Wrapf(err, "invalid order number %q", c.Args().First())
					}
					order, err := app.NewFromConfig(cfg).Lookup.Lookup(c.Context, number)
					if err != nil {
						return err
					}
					return printJSON(order)
				},
			},
			{
				Name:  "login",
				Usage: "sign in and store the session tokens",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"BURGER_PASSWORD"}},
				},
				Action: func(c *cli.Context) error {
					user, err := app.NewFromConfig(cfg).Session.Login(c.Context, model.Credentials{
						Email:    c.String("email"),
						Password: c.String("password"),
					})
					if err != nil {
						return err
					}
					return printJSON(user)
				},
			},
			{
				Name:  "logout",
				Usage: "end the stored session",
				Action: func(c *cli.Context) error {
					a := app.NewFromConfig(cfg)
					if _, err := a.Session.FetchUser(c.Context); err != nil {
						return errors.WithMessage(err, "no active session")
					}
					return a.Session.Logout(c.Context)
				},
			},
			{
				Name:  "history",
				Usage: "print the orders of the signed-in user",
				Action: func(c *cli.Context) error {
					orders, err := app.NewFromConfig(cfg).Orders.FetchHistory(c.Context)
					if err != nil {
						return err
					}
					return printJSON(orders)
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.WithError(err).Fatal("Command failed")
	}
}

func serve(ctx context.Context, cfg app.Config, listenAddr string) error {
	a := app.NewFromConfig(cfg)
	if _, err := a.Start(ctx, "/"); err != nil {
		log.WithError(err).Warn("Initial load failed, views will retry on mount")
	}

	log.WithFields(log.Fields{"addr": listenAddr, "api": cfg.APIURL}).Info("Starting server")

	killSignalChan := getKillSignalChan()
	srv := startServer(listenAddr, transport.Router(a))

	waitForKillSignalChan(killSignalChan)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func startServer(listenAddr string, handler http.Handler) *http.Server {
	srv := &http.Server{Addr: listenAddr, Handler: handler}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	return srv
}

func getKillSignalChan() chan os.Signal {
	osKillSignalChan := make(chan os.Signal, 1)
	signal.Notify(osKillSignalChan, os.Interrupt, syscall.SIGTERM)
	return osKillSignalChan
}

func waitForKillSignalChan(killSignalChan <-chan os.Signal) {
	killSignal := <-killSignalChan
	switch killSignal {
	case os.Interrupt:
		log.Info("Got SIGINT...")
	case syscall.SIGTERM:
		log.Info("Got SIGTERM...")
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
