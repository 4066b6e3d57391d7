package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/notifyrelay/pkg/api"
	"github.com/dmitrymomot/notifyrelay/pkg/bridge"
	"github.com/dmitrymomot/notifyrelay/pkg/config"
	"github.com/dmitrymomot/notifyrelay/pkg/httpserver"
	"github.com/dmitrymomot/notifyrelay/pkg/logger"
	"github.com/dmitrymomot/notifyrelay/pkg/relay"
	"github.com/dmitrymomot/notifyrelay/pkg/requestid"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"` // Env selects logger defaults.
	Service string `env:"APP_NAME" envDefault:"notifyrelay"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		appCfg    appConfig
		httpCfg   httpserver.Config
		relayCfg  relay.Config
		bridgeCfg bridge.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&relayCfg)
	config.MustLoad(&bridgeCfg)

	log := logger.New(
		logger.WithEnvironment(appCfg.Env, appCfg.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	opts := []relay.Option{relay.WithLogger(log.With(logger.Component("relay")))}

	var br *bridge.Bridge
	if bridgeCfg.Enabled() {
		var err error
		br, err = bridge.New(ctx, bridgeCfg, log.With(logger.Component("bridge")))
		if err != nil {
			log.Error("backplane connection failed", logger.Error(err))
			os.Exit(1)
		}
		defer func() { _ = br.Close() }()
		opts = append(opts, relay.WithPublisher(br))
	}

	hub := relay.New(relayCfg, opts...)
	defer hub.Close()

	go hub.Run(ctx)

	if br != nil {
		go func() {
			if err := br.Run(ctx, hub.DeliverRemote); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("backplane subscription stopped", logger.Error(err))
			}
		}()
	}

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log.With(logger.Component("http"))))
	if err := srv.Run(ctx, api.Router(hub, log)); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}
