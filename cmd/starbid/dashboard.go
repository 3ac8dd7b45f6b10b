package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bloxapp/starbid/pkg/report"
	"github.com/bloxapp/starbid/pkg/rewards"
)

type DashboardCmd struct {
	Listen     string  `env:"LISTEN" default:"127.0.0.1:8501" help:"Address to serve the dashboard on."`
	RPS        float64 `env:"RPS"    default:"5"              help:"Maximum chart renders per second." name:"rps"`
	MinimumBid float64 `             default:"500"            help:"Minimum bid of the dashboard when --minimum-bid is unset." name:"dashboard-minimum-bid"`
}

func (c *DashboardCmd) Run(logger *zap.Logger, globals *Globals, rules *rewards.Rules) error {
	dashRules := *rules
	if globals.MinimumBid <= 0 && c.MinimumBid > 0 {
		dashRules = rules.WithMinimumBid(c.MinimumBid)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              c.Listen,
		Handler:           report.NewDashboard(logger, dashRules, rewards.DefaultDomainOptions, c.RPS),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()
	logger.Info("Serving dashboard",
		zap.String("address", "http://"+c.Listen),
		zap.Float64("minimum_bid", dashRules.MinimumBid),
	)

	select {
	case err := <-errs:
		return fmt.Errorf("failed to serve dashboard: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to shut down dashboard: %w", err)
	}
	logger.Info("Stopped dashboard")
	return nil
}
