package cmd

import (
	"testing"

	"github.com/drasi-project/drasi-server/internal/config"
)

func TestServeCommand_Registered(t *testing.T) {
	if serveCmd.Use != "serve" {
		t.Errorf("Expected Use to be 'serve', got %s", serveCmd.Use)
	}
	if serveCmd.RunE == nil {
		t.Error("Expected RunE to be set")
	}
	if serveCmd.Flags().Lookup("config") == nil {
		t.Error("Expected --config flag to be registered")
	}
	if serveCmd.Flags().Lookup("shutdown-timeout") == nil {
		t.Error("Expected --shutdown-timeout flag to be registered")
	}
}

func TestFactories_RegistersEveryPluginKind(t *testing.T) {
	f := factories()

	wantSources := []config.SourcePluginKind{
		config.SourceMock, config.SourceHttp, config.SourceGrpc, config.SourcePostgres, config.SourcePlatform,
	}
	for _, k := range wantSources {
		if f.Sources[k] == nil {
			t.Errorf("missing source factory for kind %q", k)
		}
	}

	wantReactions := []config.ReactionPluginKind{
		config.ReactionLog, config.ReactionHttp, config.ReactionHttpAdaptive, config.ReactionGrpc,
		config.ReactionGrpcAdaptive, config.ReactionSse, config.ReactionPlatform, config.ReactionProfiler,
	}
	for _, k := range wantReactions {
		if f.Reactions[k] == nil {
			t.Errorf("missing reaction factory for kind %q", k)
		}
	}

	wantBootstrap := []config.BootstrapProviderKind{
		config.BootstrapNoOp, config.BootstrapScriptFile, config.BootstrapPostgres,
		config.BootstrapPlatform, config.BootstrapApplication,
	}
	for _, k := range wantBootstrap {
		if f.BootstrapProviders[k] == nil {
			t.Errorf("missing bootstrap factory for kind %q", k)
		}
	}

	if f.Query == nil {
		t.Error("missing query factory")
	}
}
