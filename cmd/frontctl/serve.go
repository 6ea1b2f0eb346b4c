package main

import (
	"github.com/joeydtaylor/frontctl/pkg/serverfx"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Scan controllers and serve HTTP",
		Long: `Load the manifest, scan the controller namespace, and serve every
request through the dispatcher. Send SIGHUP to rescan without restarting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				serverfx.Module(serverfx.WithManifestPath(manifestFlag(cmd))),
				fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
					return &fxevent.ZapLogger{Logger: l.Named("fx")}
				}),
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}
