// Package main is ebxverify, a command line tool that checks hex encoded
// blocks and transactions against an unspent output set kept in badger.
//
// Usage:
//
//	ebxverify import --file funding.hex --height 10
//	ebxverify tx --file tx.hex --height 11
//	ebxverify block --file block.hex --timestamp 1700000000
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/settings"
	"github.com/earthbucks/ebxnode/tracing"
	"github.com/earthbucks/ebxnode/ulogger"
	"github.com/urfave/cli/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func main() {
	if err := newApp(nil).Run(os.Args); err != nil {
		code := statusCode(err)
		fmt.Fprintf(os.Stderr, "%v (%s)\n", err, code)
		os.Exit(int(code))
	}
}

// statusCode maps err to the gRPC status a node would answer with, so scripts
// can tell rejections (FailedPrecondition) from bad input and storage faults.
func statusCode(err error) codes.Code {
	return status.Code(errors.WrapGRPC(err))
}

// newApp builds the cli app. A nil logger logs to stdout at the configured level.
func newApp(logger ulogger.Logger) *cli.App {
	tSettings := settings.NewSettings()

	if logger == nil {
		logger = ulogger.New("ebxverify", ulogger.WithLevel(tSettings.LogLevel))
	}

	env := &commandEnv{settings: tSettings, logger: logger}

	utxosFlag := &cli.StringFlag{
		Name:  "utxos",
		Usage: "badger directory holding the unspent output set",
		Value: tSettings.UtxoStore.BadgerDir,
	}

	fileFlag := &cli.StringFlag{
		Name:     "file",
		Usage:    "file with the hex encoding, - for stdin",
		Required: true,
	}

	traceFlag := &cli.BoolFlag{
		Name:  "trace-utxos",
		Usage: "log every unspent output set operation",
	}

	return &cli.App{
		Name:  "ebxverify",
		Usage: "verify EarthBucks blocks and transactions against an unspent output set",
		Before: func(c *cli.Context) error {
			return tracing.InitTracer(tSettings)
		},
		After: func(c *cli.Context) error {
			return tracing.ShutdownTracer(context.Background())
		},
		Commands: []*cli.Command{
			{
				Name:   "block",
				Usage:  "validate a block at a wall clock time and apply it on success",
				Action: env.action(validateBlock),
				Flags: []cli.Flag{
					fileFlag,
					utxosFlag,
					traceFlag,
					&cli.Uint64Flag{
						Name:     "timestamp",
						Usage:    "validation time in unix seconds",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "prev",
						Usage: "only accept headers that extend this block id",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "validate without writing the result to the set",
					},
				},
			},
			{
				Name:   "tx",
				Usage:  "validate a single transaction without changing the set",
				Action: env.action(validateTx),
				Flags: []cli.Flag{
					fileFlag,
					utxosFlag,
					traceFlag,
					&cli.Uint64Flag{
						Name:     "height",
						Usage:    "height of the block the transaction would be mined in",
						Required: true,
					},
				},
			},
			{
				Name:   "import",
				Usage:  "add the outputs of a transaction to the set without validating it",
				Action: env.action(importTx),
				Flags: []cli.Flag{
					fileFlag,
					utxosFlag,
					traceFlag,
					&cli.Uint64Flag{
						Name:     "height",
						Usage:    "height the outputs were created at",
						Required: true,
					},
				},
			},
		},
	}
}
