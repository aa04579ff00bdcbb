package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	httpApp "github.com/oxygenesis/signchain/internal/app/http"
	"github.com/oxygenesis/signchain/internal/config"
	"github.com/oxygenesis/signchain/internal/crypto"
	"github.com/oxygenesis/signchain/internal/domain"
	"github.com/oxygenesis/signchain/internal/logging"
	"github.com/oxygenesis/signchain/internal/service"
	"github.com/oxygenesis/signchain/internal/storage"
)

// test-stubbables
var httpStart = httpApp.Start
var osExit = os.Exit

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		code := 1
		var ec cli.ExitCoder
		if errors.As(err, &ec) {
			code = ec.ExitCode()
		}
		osExit(code)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "signature-service",
		Usage: "signature devices with chained signatures",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a TOML config file",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address (overrides server.listen)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "logging level (overrides log.level)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json (overrides log.format)",
			},
			&cli.StringFlag{
				Name:  "mode",
				Value: "http",
				Usage: "service mode: http",
			},
			&cli.BoolFlag{
				Name:  "test",
				Usage: "test mode: build server only",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:  "verify",
				Usage: "verifies a signature offline against a device public key",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "algorithm", Required: true, Usage: "RSA or EC"},
					&cli.StringFlag{Name: "public-key", Required: true, Usage: "file holding the PEM public key"},
					&cli.StringFlag{Name: "data", Required: true, Usage: "signed_data as returned by the sign call"},
					&cli.StringFlag{Name: "signature", Required: true, Usage: "base64 signature"},
				},
				Action: verify,
			},
		},
		// exit codes are handled in main
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("addr") {
		cfg.Server.Listen = c.String("addr")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	if mode := c.String("mode"); mode != "http" {
		return fmt.Errorf("unsupported mode %q", mode)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	engine := crypto.NewEngine(cfg.Crypto.RSABits)
	svc := service.New(storage.NewMemory(), engine, engine, cfg.Rules(), log)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(logrus.Fields{"mode": "http", "rsa_bits": cfg.Crypto.RSABits}).Info("starting signature service")
	return httpStart(ctx, cfg.Server, svc, log.WithField("context", "http"), c.Bool("test"))
}

func verify(c *cli.Context) error {
	alg, err := domain.ParseAlgorithm(c.String("algorithm"))
	if err != nil {
		return err
	}
	pub, err := os.ReadFile(c.String("public-key"))
	if err != nil {
		return fmt.Errorf("reading public key: %w", err)
	}

	if !crypto.NewEngine(0).Verify(alg, c.String("data"), c.String("signature"), string(pub)) {
		return cli.Exit("signature invalid", 2)
	}
	fmt.Fprintln(c.App.Writer, "signature valid")
	return nil
}
