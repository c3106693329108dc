// Cost Optimizer CLI - AWS cost analysis and AI-narrated reporting
//
// Usage:
//   optimizer analyze          Run stage 1: collect metrics, store snapshot
//   optimizer report           Run stage 2: narrate latest snapshot
//   optimizer run              Run both stages back to back
//   optimizer serve            Expose both stages over HTTP
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	pricingsvc "github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/urfave/cli/v2"

	httpapi "aws-cost-optimizer/api"
	"aws-cost-optimizer/db"
	"aws-cost-optimizer/internal/ai"
	"aws-cost-optimizer/internal/analyzer"
	"aws-cost-optimizer/internal/collector"
	"aws-cost-optimizer/internal/distribute"
	"aws-cost-optimizer/internal/handler"
	"aws-cost-optimizer/internal/pricing"
	"aws-cost-optimizer/internal/report"
	"aws-cost-optimizer/pkg/api"
	"aws-cost-optimizer/pkg/config"
	"aws-cost-optimizer/pkg/platform"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// pricingRegion is where the Pricing API is served from, independent of the
// region being analyzed.
const pricingRegion = "us-east-1"

func main() {
	app := &cli.App{
		Name:    "cost-optimizer",
		Usage:   "Analyze AWS resource utilization and generate AI-narrated savings reports",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "ai-provider",
				Value:   "groq",
				Usage:   "Report generation backend (groq, openrouter, ollama)",
				EnvVars: []string{"AI_PROVIDER"},
			},
			&cli.StringFlag{
				Name:    "store-backend",
				Value:   config.BackendDynamoDB,
				Usage:   "Snapshot store (dynamodb, clickhouse, postgres)",
				EnvVars: []string{"STORE_BACKEND"},
			},
			&cli.IntFlag{
				Name:    "http-port",
				Value:   8080,
				Usage:   "Trigger server port",
				EnvVars: []string{"HTTP_PORT"},
			},
		},

		Commands: []*cli.Command{
			analyzeCommand(),
			reportCommand(),
			runCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// deps holds everything a command needs after setup.
type deps struct {
	cfg    *config.Config
	logger *slog.Logger
	awsCfg aws.Config
	store  db.Store
}

func setup(c *cli.Context) (*deps, error) {
	logger := platform.InitLogger()

	cfg := config.Load()
	cfg.AIProvider = c.String("ai-provider")
	cfg.StoreBackend = c.String("store-backend")
	cfg.HTTPPort = c.Int("http-port")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(c.Context)
	if err != nil {
		return nil, fmt.Errorf("load AWS configuration: %w", err)
	}

	store, err := db.Open(cfg, awsCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	return &deps{cfg: cfg, logger: logger, awsCfg: awsCfg, store: store}, nil
}

func buildAnalyze(d *deps) *handler.Analyze {
	col := collector.New(
		ec2.NewFromConfig(d.awsCfg),
		cloudwatch.NewFromConfig(d.awsCfg),
		d.logger,
	)

	var enricher handler.Enricher
	if d.cfg.EnablePricingEnrichment {
		client := pricingsvc.NewFromConfig(d.awsCfg, func(o *pricingsvc.Options) {
			o.Region = pricingRegion
		})
		enricher = pricing.New(client, d.awsCfg.Region, d.logger)
	}

	return handler.NewAnalyze(col, analyzer.New(), enricher, d.store, d.logger)
}

func buildReport(d *deps) *handler.Report {
	var generator handler.ReportGenerator
	provider, err := ai.New(d.cfg)
	if err != nil {
		d.logger.Error("generation backend unavailable, stage will use templated fallback", "error", err)
	} else {
		generator = report.NewGenerator(provider, d.logger)
	}

	archiver := distribute.NewArchiver(s3.NewFromConfig(d.awsCfg), d.cfg.S3Bucket, d.cfg.EnableS3, d.logger)
	notifier := distribute.NewNotifier(sns.NewFromConfig(d.awsCfg), d.cfg.SNSTopicARN, d.cfg.EnableEmail, d.logger)

	return handler.NewReport(d.store, generator, archiver, notifier, d.logger)
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Collect metrics, derive recommendations, and store a snapshot",
		Action: func(c *cli.Context) error {
			d, err := setup(c)
			if err != nil {
				return err
			}
			defer d.store.Close()

			resp := buildAnalyze(d).Handle(c.Context)
			emit(resp)
			if !resp.OK() {
				return cli.Exit("cost analysis failed", 1)
			}
			return nil
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Generate and distribute the report for the latest snapshot",
		Action: func(c *cli.Context) error {
			d, err := setup(c)
			if err != nil {
				return err
			}
			defer d.store.Close()

			resp := buildReport(d).Handle(c.Context)
			emit(resp)
			if resp.StatusCode >= 500 {
				return cli.Exit("report generation failed", 1)
			}
			return nil
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run both stages back to back",
		Action: func(c *cli.Context) error {
			d, err := setup(c)
			if err != nil {
				return err
			}
			defer d.store.Close()

			resp := buildAnalyze(d).Handle(c.Context)
			emit(resp)
			if !resp.OK() {
				return cli.Exit("cost analysis failed", 1)
			}

			resp = buildReport(d).Handle(c.Context)
			emit(resp)
			if resp.StatusCode >= 500 {
				return cli.Exit("report generation failed", 1)
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Expose the pipeline stages over HTTP",
		Action: func(c *cli.Context) error {
			d, err := setup(c)
			if err != nil {
				return err
			}
			defer d.store.Close()

			serverCfg := httpapi.DefaultConfig()
			serverCfg.Port = d.cfg.HTTPPort

			server := httpapi.NewServer(buildAnalyze(d), buildReport(d), d.store, d.logger, serverCfg)
			return server.Serve(c.Context)
		},
	}
}

func emit(resp api.Response) {
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		fmt.Println(resp)
		return
	}
	fmt.Println(string(out))
}
