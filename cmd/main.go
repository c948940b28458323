package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"bluetrade/src/database"
	"bluetrade/src/server"
	"bluetrade/src/service"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "Bluetrade CMD"
	app.Usage = "The Bluetrade command line interface"

	app.Commands = []cli.Command{
		serveCMD,
		refreshQuotesCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the API server",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the HTTP API server`,
	}
	refreshQuotesCMD = cli.Command{
		Name:        "refresh-quotes",
		Usage:       "re-fetch every cached stock quote",
		Action:      refreshQuotesAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Refresh the local quote cache from the provider`,
	}
)

func serveAction(_ *cli.Context) error {
	logrus.Info("Starting API server CMD")

	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	server.StartServer(server.GetConfig().Port)
	return nil
}

func refreshQuotesAction(_ *cli.Context) error {
	logrus.Info("Starting quote refresh CMD")

	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stocks := service.NewStockService(0)
	refreshed, err := stocks.RefreshAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Quote refresh failed")
		return err
	}

	logrus.WithField("refreshed", refreshed).Info("Quote refresh complete")
	return nil
}
