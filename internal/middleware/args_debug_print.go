package middleware

import (
	"github.com/sirupsen/logrus"

	"github.com/keshon/filevault/internal/cli"
)

// WithDebugArgsPrint logs the raw command arguments at debug level before
// running the command.
func WithDebugArgsPrint() cli.Middleware {
	return func(cmd cli.Command) cli.Command {
		return &cli.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *cli.Context) error {
				logrus.Debugf("%s args: %+v", cmd.Name(), ctx.Args)
				return cmd.Run(ctx)
			},
		}
	}
}
