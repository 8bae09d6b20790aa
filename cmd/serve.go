package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/drasi-project/drasi-server/internal/api"
	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
	"github.com/drasi-project/drasi-server/internal/orchestrator"
	"github.com/drasi-project/drasi-server/internal/query"
	"github.com/drasi-project/drasi-server/pkg/logging"

	bootstrapapplication "github.com/drasi-project/drasi-server/internal/plugin/bootstrap/application"
	bootstrapnoop "github.com/drasi-project/drasi-server/internal/plugin/bootstrap/noop"
	bootstrapplatform "github.com/drasi-project/drasi-server/internal/plugin/bootstrap/platform"
	bootstrappostgres "github.com/drasi-project/drasi-server/internal/plugin/bootstrap/postgres"
	bootstrapscriptfile "github.com/drasi-project/drasi-server/internal/plugin/bootstrap/scriptfile"

	sourcegrpc "github.com/drasi-project/drasi-server/internal/plugin/source/grpc"
	sourcehttp "github.com/drasi-project/drasi-server/internal/plugin/source/http"
	sourcemock "github.com/drasi-project/drasi-server/internal/plugin/source/mock"
	sourceplatform "github.com/drasi-project/drasi-server/internal/plugin/source/platform"
	sourcepostgres "github.com/drasi-project/drasi-server/internal/plugin/source/postgres"

	reactiongrpc "github.com/drasi-project/drasi-server/internal/plugin/reaction/grpc"
	reactiongrpcadaptive "github.com/drasi-project/drasi-server/internal/plugin/reaction/grpcadaptive"
	reactionhttp "github.com/drasi-project/drasi-server/internal/plugin/reaction/http"
	reactionhttpadaptive "github.com/drasi-project/drasi-server/internal/plugin/reaction/httpadaptive"
	reactionlog "github.com/drasi-project/drasi-server/internal/plugin/reaction/log"
	reactionplatform "github.com/drasi-project/drasi-server/internal/plugin/reaction/platform"
	reactionprofiler "github.com/drasi-project/drasi-server/internal/plugin/reaction/profiler"
	reactionsse "github.com/drasi-project/drasi-server/internal/plugin/reaction/sse"
)

// serveConfigPath points at the YAML or JSON file describing the sources,
// queries and reactions to run. A missing file falls back to config.Default.
var serveConfigPath string

// serveShutdownTimeout bounds how long Stop waits for in-flight component
// work to drain before the process exits anyway.
var serveShutdownTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Drasi Server control plane",
	Long: `Loads the configuration file, builds every declared source, query and
reaction, starts the ones marked auto_start, and serves the control-plane
HTTP API until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "drasi-server.yaml", "Path to the server configuration file")
	serveCmd.Flags().DurationVar(&serveShutdownTimeout, "shutdown-timeout", 30*time.Second, "Maximum time to wait for components to stop on shutdown")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	resolver := mapping.NewResolver()

	logLevelName, err := mapping.ResolveTyped(resolver, cfg.LogLevel, identityString)
	if err != nil {
		return fmt.Errorf("resolving log_level: %w", err)
	}
	log := logging.New(logging.ParseLevel(logLevelName), cmd.ErrOrStderr())

	host, err := mapping.ResolveTyped(resolver, cfg.Host, identityString)
	if err != nil {
		return fmt.Errorf("resolving host: %w", err)
	}
	port, err := mapping.ResolveTyped(resolver, cfg.Port, strconv.Atoi)
	if err != nil {
		return fmt.Errorf("resolving port: %w", err)
	}

	orch := orchestrator.New(factories(), resolver, log)
	if err := orch.Build(cfg); err != nil {
		return fmt.Errorf("building configuration: %w", err)
	}
	orch.SetPersistence(config.NewPersistence(serveConfigPath, cfg.DisablePersistence))

	if err := orch.Start(ctx); err != nil {
		log.Error(err, "one or more components failed to auto-start")
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	apiServer := api.NewServer(addr, orch, log)
	if err := apiServer.Start(); err != nil {
		return fmt.Errorf("starting control API on %s: %w", addr, err)
	}
	log.Info("control API listening", "addr", addr)

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
	defer cancel()

	var errs []error
	if err := apiServer.Stop(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("stopping control API: %w", err))
	}
	if err := orch.Stop(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("stopping orchestrator: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown: %v", errs)
	}
	return nil
}

func identityString(s string) (string, error) { return s, nil }

// factories registers every built-in source, reaction and bootstrap
// provider kind plus the single query factory.
func factories() orchestrator.Factories {
	return orchestrator.Factories{
		Sources: map[config.SourcePluginKind]orchestrator.SourceFactory{
			config.SourceMock:     sourcemock.Factory,
			config.SourceHttp:     sourcehttp.Factory,
			config.SourceGrpc:     sourcegrpc.Factory,
			config.SourcePostgres: sourcepostgres.Factory,
			config.SourcePlatform: sourceplatform.Factory,
		},
		Reactions: map[config.ReactionPluginKind]orchestrator.ReactionFactory{
			config.ReactionLog:          reactionlog.Factory,
			config.ReactionHttp:         reactionhttp.Factory,
			config.ReactionHttpAdaptive: reactionhttpadaptive.Factory,
			config.ReactionGrpc:         reactiongrpc.Factory,
			config.ReactionGrpcAdaptive: reactiongrpcadaptive.Factory,
			config.ReactionSse:          reactionsse.Factory,
			config.ReactionPlatform:     reactionplatform.Factory,
			config.ReactionProfiler:     reactionprofiler.Factory,
		},
		BootstrapProviders: map[config.BootstrapProviderKind]orchestrator.BootstrapFactory{
			config.BootstrapNoOp:        bootstrapnoop.Factory,
			config.BootstrapScriptFile:  bootstrapscriptfile.Factory,
			config.BootstrapPostgres:    bootstrappostgres.Factory,
			config.BootstrapPlatform:    bootstrapplatform.Factory,
			config.BootstrapApplication: bootstrapapplication.Factory,
		},
		Query: func(dto config.QueryConfigDTO) (config.QueryConfig, component.QueryEvaluator, error) {
			return query.Factory(dto)
		},
	}
}
