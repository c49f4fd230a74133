package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"go_gizmo/internal/bootstrap"
	"go_gizmo/internal/config"
	"go_gizmo/internal/dns"
)

// Env is what the commands operate on
type Env struct {
	Service *dns.Service
	Migrate func() error
	Seed    func() error
	Close   func() error
}

// Loader builds the Env when a command runs
type Loader func(ctx context.Context) (*Env, error)

// NewRootCommand builds the gizmoctl command tree
func NewRootCommand(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gizmoctl",
		Short: "Manage DNS records across providers",
		Long: `gizmoctl manages the DNS records of domains hosted at several providers
through one canonical record model.

Quick start:
  gizmoctl migrate                           # Create the schema
  gizmoctl seed                              # Insert DNS types and providers
  gizmoctl records list --domain-id 1        # Records served by the provider
  gizmoctl records pull --domain-id 1        # Import them locally
  gizmoctl records push --record-id 3 --op update`,
		SilenceUsage: true,
	}

	cmd.AddCommand(migrateCommand(load))
	cmd.AddCommand(seedCommand(load))
	cmd.AddCommand(providersCommand(load))
	cmd.AddCommand(recordsCommand(load))
	return cmd
}

// Execute runs gizmoctl against the configured database
func Execute() {
	root := NewRootCommand(loadEnv)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadEnv(ctx context.Context) (*Env, error) {
	cfg, err := config.LoadAuto()
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Env{
		Service: app.Service,
		Migrate: app.Migrate,
		Seed:    app.Seed,
		Close:   func() error { return app.Close(context.Background()) },
	}, nil
}

// withEnv loads the Env for the duration of run
func withEnv(cmd *cobra.Command, load Loader, run func(env *Env) error) error {
	env, err := load(cmd.Context())
	if err != nil {
		return err
	}
	if env.Close != nil {
		defer env.Close()
	}
	return run(env)
}
