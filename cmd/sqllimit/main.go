package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cybertec-postgresql/sqllimit/internal/cli"
	"github.com/cybertec-postgresql/sqllimit/internal/errors"
	"github.com/cybertec-postgresql/sqllimit/internal/logger"
	urfavecli "github.com/urfave/cli/v3"
)

const version = "1.0.0"

func main() {
	app := &urfavecli.Command{
		Name:    "sqllimit",
		Usage:   "Enforce a row limit and offset on SQL queries",
		Version: version,
		Commands: []*urfavecli.Command{
			{
				Name:      "rewrite",
				Usage:     "Rewrite SQL so every query returns at most --limit rows",
				ArgsUsage: "[file|directory|- ...]",
				Action:    rewriteCommand,
				Flags: []urfavecli.Flag{
					&urfavecli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Maximum number of rows a query may return",
						Sources: urfavecli.EnvVars("SQLLIMIT_LIMIT"),
					},
					&urfavecli.IntFlag{
						Name:    "offset",
						Usage:   "Offset to add to queries that have none",
						Sources: urfavecli.EnvVars("SQLLIMIT_OFFSET"),
					},
					&urfavecli.StringSliceFlag{
						Name:    "strategy",
						Aliases: []string{"s"},
						Usage:   "Limit strategy in order of preference (limit, fetch); repeat or comma separate",
						Sources: urfavecli.EnvVars("SQLLIMIT_STRATEGY"),
					},
					&urfavecli.IntFlag{
						Name:    "parallel",
						Usage:   "Maximum files rewritten concurrently (1 = sequential)",
						Sources: urfavecli.EnvVars("SQLLIMIT_PARALLEL"),
					},
					&urfavecli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file, or directory for many inputs (use - for stdout)",
					},
					&urfavecli.StringFlag{
						Name:    "connection",
						Aliases: []string{"c"},
						Usage:   "PostgreSQL connection string used by --verify. Supports standard PG* environment variables.",
						Sources: urfavecli.EnvVars("SQLLIMIT_CONNECTION"),
					},
					&urfavecli.BoolFlag{
						Name:  "verify",
						Usage: "EXPLAIN every rewritten query on the server",
					},
					&urfavecli.StringFlag{
						Name:    "config",
						Usage:   "YAML configuration file (default " + cli.DefaultConfigFile + " when present)",
						Sources: urfavecli.EnvVars("SQLLIMIT_CONFIG"),
					},
					&urfavecli.BoolFlag{
						Name:  "verbose",
						Usage: "Enable debug output",
					},
				},
			},
			{
				Name:      "tokens",
				Usage:     "Dump the tokens and statements of an input",
				ArgsUsage: "[file|-]",
				Action:    tokensCommand,
				Flags: []urfavecli.Flag{
					&urfavecli.StringFlag{
						Name:  "format",
						Usage: "Output format (json, yaml, or text)",
						Value: "text",
					},
					&urfavecli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (use - for stdout)",
						Value:   "-",
					},
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.ExitCode(err))
	}
}

// rewriteCommand handles the 'sqllimit rewrite' command
func rewriteCommand(ctx context.Context, cmd *urfavecli.Command) error {
	// Load configuration
	config, err := cli.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	// Apply flags
	flags := cli.Flags{
		Strategies:  cmd.StringSlice("strategy"),
		Parallelism: int(cmd.Int("parallel")),
		Connection:  cmd.String("connection"),
		Verify:      cmd.Bool("verify"),
		Output:      cmd.String("output"),
		Verbose:     cmd.Bool("verbose"),
	}
	if cmd.IsSet("limit") {
		limit := int(cmd.Int("limit"))
		flags.Limit = &limit
	}
	if cmd.IsSet("offset") {
		offset := int(cmd.Int("offset"))
		flags.Offset = &offset
	}
	cli.ApplyFlagsToConfig(config, flags)

	// Validate configuration
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.ExitContract)
	}
	logger.SetVerbose(config.Verbose)

	exitCode, err := cli.Rewrite(ctx, config, cmd.Args().Slice(), os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode)
	}

	// Exit with appropriate code
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	return nil
}

// tokensCommand handles the 'sqllimit tokens' command
func tokensCommand(ctx context.Context, cmd *urfavecli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")

	return cli.Tokens(cmd.Args().First(), format, output, os.Stdin, os.Stdout)
}
