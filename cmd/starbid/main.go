package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bloxapp/starbid/pkg/rewards"
)

type Globals struct {
	LogLevel   string  `env:"LOG_LEVEL"   enum:"debug,info,warn,error" default:"info" help:"Log level."`
	Rules      string  `env:"RULES"                                                   help:"Path to a rules YAML file. Defaults to the built-in contest rules." type:"existingfile"`
	MinimumBid float64 `env:"MINIMUM_BID"                                             help:"Overrides the minimum bid of the rules when positive."`
}

type CLI struct {
	Globals
	Tiers      TiersCmd      `cmd:"" help:"Prints the tier and prize of total pool sizes."`
	Efficiency EfficiencyCmd `cmd:"" help:"Prints the efficiency of a single bid."`
	Optimize   OptimizeCmd   `cmd:"" help:"Finds the bid with the highest efficiency."`
	Table      TableCmd      `cmd:"" help:"Prints the efficiency table."`
	Surface    SurfaceCmd    `cmd:"" help:"Exports the efficiency surface."`
	Chart      ChartCmd      `cmd:"" help:"Draws the tier and efficiency charts."`
	Dashboard  DashboardCmd  `cmd:"" help:"Serves the interactive dashboard."`
}

func main() {
	// Parse .env file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatal(err)
	}

	// Parse CLI.
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("starbid"),
		kong.Description("Finds the most cost-effective bid for the star contest."),
		kong.UsageOnError(),
		kong.Vars{
			"version": "0.0.1",
		},
	)

	// Setup logger.
	logLevel, err := zapcore.ParseLevel(cli.Globals.LogLevel)
	if err != nil {
		log.Fatal(fmt.Errorf("failed to parse log level: %w", err))
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(colorable.NewColorableStdout()),
		logLevel,
	))

	// Load the rules.
	rules, err := loadRules(cli.Globals)
	if err != nil {
		logger.Fatal("failed to load rules", zap.Error(err))
	}
	logger.Debug("Loaded rules",
		zap.String("source", rulesSource(cli.Globals)),
		zap.Float64("minimum_bid", rules.MinimumBid),
		zap.Float64("max_total_pool", rules.MaxTotalPool),
		zap.Float64("star_multiplier", rules.StarMultiplier),
		zap.Stringer("beyond_cap", rules.BeyondCap),
		zap.Int("tiers", len(rules.Tiers)),
	)

	// Run the CLI.
	err = ctx.Run(logger, &cli.Globals, rules)
	ctx.FatalIfErrorf(err)
}

func loadRules(g Globals) (*rewards.Rules, error) {
	rules := rewards.DefaultRules
	if g.Rules != "" {
		data, err := os.ReadFile(g.Rules)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", g.Rules, err)
		}
		parsed, err := rewards.ParseRules(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rules: %w", err)
		}
		rules = *parsed
	}
	if g.MinimumBid > 0 {
		rules = rules.WithMinimumBid(g.MinimumBid)
	}
	return &rules, nil
}

func rulesSource(g Globals) string {
	if g.Rules == "" {
		return "built-in"
	}
	return g.Rules
}
