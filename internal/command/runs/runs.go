package runs

import (
	"flag"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/keshon/filevault/internal/cli"
	"github.com/keshon/filevault/internal/fs"
	"github.com/keshon/filevault/internal/middleware"
	"github.com/keshon/filevault/internal/snapshot"
)

type Command struct{}

func (c *Command) Name() string      { return "runs" }
func (c *Command) Short() string     { return "r" }
func (c *Command) Aliases() []string { return []string{"list"} }
func (c *Command) Usage() string     { return "runs -target <dir>" }
func (c *Command) Brief() string     { return "List snapshot runs in a target base directory" }
func (c *Command) Help() string {
	return `List snapshot run directories under a target base, oldest first,
with the number of pointer records each run holds.

Options:
  -target <dir>   target base directory (required)`
}

func (c *Command) Run(ctx *cli.Context) error {
	flags := flag.NewFlagSet("runs", flag.ContinueOnError)
	target := flags.String("target", "", "")
	if err := flags.Parse(ctx.Args); err != nil {
		return err
	}
	if *target == "" {
		return fmt.Errorf("usage: %s", c.Usage())
	}

	fsys := fs.NewOSFS()
	entries, err := fsys.ReadDir(*target)
	if err != nil {
		return fmt.Errorf("read target base %q: %w", *target, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && snapshot.IsRunDir(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names) // timestamp names sort chronologically

	if len(names) == 0 {
		fmt.Println("No snapshot runs found")
		return nil
	}

	for _, name := range names {
		rc := snapshot.NewContext(filepath.Join(*target, name), fsys)
		count, err := rc.CountRecords()
		if err != nil {
			return err
		}
		fmt.Printf("%s  %d record(s)\n", name, count)
	}
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
