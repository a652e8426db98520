package archive

import (
	"flag"
	"fmt"

	"github.com/keshon/filevault/internal/archive"
	"github.com/keshon/filevault/internal/cli"
	"github.com/keshon/filevault/internal/config"
	"github.com/keshon/filevault/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "archive" }
func (c *Command) Short() string     { return "a" }
func (c *Command) Aliases() []string { return []string{"run"} }
func (c *Command) Usage() string     { return "archive -source <dir> -target <dir> [-config <file>]" }
func (c *Command) Brief() string     { return "Archive accepted files into the content store" }
func (c *Command) Help() string {
	return `Archive one source tree into a target base directory.

Walks the source tree, skips hidden entries, and stores each accepted file
once per distinct content fingerprint under <target>/files_by_<hash>. Each run
writes a timestamped snapshot directory of pointer records mirroring the
source layout.

Options:
  -source <dir>    source directory to scan (required)
  -target <dir>    target base directory (required)
  -config <file>   TOML config with accepted extensions (default: filevault.toml)
  -quiet           suppress the progress display

Examples:
  filevault archive -source ~/photos -target /backup
  filevault archive -source ./docs -target /backup -config docs.toml`
}

func (c *Command) Run(ctx *cli.Context) error {
	fs := flag.NewFlagSet("archive", flag.ContinueOnError)
	source := fs.String("source", "", "")
	target := fs.String("target", "", "")
	cfgPath := fs.String("config", config.DefaultFile, "")
	quiet := fs.Bool("quiet", false, "")
	fs.BoolVar(quiet, "q", false, "alias for -quiet")

	if err := fs.Parse(ctx.Args); err != nil {
		return err
	}
	if *source == "" || *target == "" {
		return fmt.Errorf("usage: %s", c.Usage())
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}

	stats, err := archive.Run(archive.Options{
		Source:     *source,
		TargetBase: *target,
		Config:     cfg,
		Progress:   !*quiet,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Archived %d file(s), %d deduplicated, %d failed\n",
		stats.Processed, stats.Deduped, stats.Failed)
	return nil
}

func init() {
	cli.RegisterCommand(
		cli.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
		),
	)
}
