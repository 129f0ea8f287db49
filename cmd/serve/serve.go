// Package serve implements the command that runs the HTTP API.
package serve

import (
	"fmt"

	"github.com/jonesrussell/newscheck/cmd/common"
	infralogger "github.com/jonesrussell/newscheck/infrastructure/logger"
	"github.com/jonesrussell/newscheck/infrastructure/profiling"
	"github.com/jonesrussell/newscheck/internal/bootstrap"
	"github.com/spf13/cobra"
)

// Command returns the serve command.
func Command() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. POST /analyze keeps the original model server's
contract; the /api/v1 routes return full reports. The server drains
in-flight requests on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps(cmd, common.Options{})
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}
			defer func() { _ = deps.Logger.Sync() }()

			if port > 0 {
				deps.Config.Server.Port = port
			}

			profiler, err := profiling.StartPyroscope("api", deps.Logger)
			if err != nil {
				deps.Logger.Warn("Continuous profiling disabled", infralogger.Error(err))
			}
			defer func() { _ = profiler.Stop() }()

			app, err := bootstrap.NewApp(deps.Config, deps.Logger)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}

			return app.NewHTTPServer().RunWithGracefulShutdown(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")

	return cmd
}
