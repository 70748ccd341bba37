// Package cli implements the geodexctl command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geodex/internal/app"
	"github.com/kailas-cloud/geodex/internal/config"
	"github.com/kailas-cloud/geodex/internal/domain/amenity"
	"github.com/kailas-cloud/geodex/internal/domain/candidate"
	"github.com/kailas-cloud/geodex/internal/domain/geo"
	"github.com/kailas-cloud/geodex/internal/domain/infrastructure"
	logpkg "github.com/kailas-cloud/geodex/internal/logger"
	"github.com/kailas-cloud/geodex/internal/usecase/nearby"
	"github.com/kailas-cloud/geodex/internal/version"
	geodex "github.com/kailas-cloud/geodex/pkg/sdk"
)

// Services is what the commands call.
type Services interface {
	Resolve(ctx context.Context, query string, limit int) ([]candidate.Candidate, error)
	FetchAmenities(ctx context.Context, q nearby.AmenityQuery) ([]amenity.Amenity, error)
	FetchInfrastructure(
		ctx context.Context, q nearby.InfrastructureQuery,
	) (map[infrastructure.Layer][]infrastructure.Feature, error)
}

// Opener builds Services for an environment. The returned func releases them.
type Opener func(ctx context.Context, env, logLevel string) (Services, int, func(), error)

type options struct {
	env      string
	logLevel string
	server   string
	apiKey   string
	open     Opener

	svc          Services
	defaultLimit int
	closeFn      func()
}

// NewRootCmd builds the command tree. A nil opener wires the real services from config.
func NewRootCmd(open Opener) *cobra.Command {
	if open == nil {
		open = openApp
	}
	o := &options{open: open}

	root := &cobra.Command{
		Use:           "geodexctl",
		Short:         "Resolve Vietnamese places and explore what is around them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			open := o.open
			if o.server != "" {
				open = remoteOpener(o.server, o.apiKey)
			}
			svc, limit, closeFn, err := open(cmd.Context(), o.env, o.logLevel)
			if err != nil {
				return err
			}
			o.svc, o.defaultLimit, o.closeFn = svc, limit, closeFn
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if o.closeFn != nil {
				o.closeFn()
			}
		},
	}
	root.PersistentFlags().StringVar(&o.env, "env", config.GetEnv(), "configuration environment (config/<env>.yaml)")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "warn", "log level written to stderr")
	root.PersistentFlags().StringVar(&o.server, "server", "", "call a running geodex server instead of upstreams directly")
	root.PersistentFlags().StringVar(&o.apiKey, "api-key", "", "bearer token for --server")

	root.AddCommand(
		newResolveCmd(o),
		newAmenitiesCmd(o),
		newInfraCmd(o),
		newVersionCmd(),
	)
	return root
}

func newResolveCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "resolve <query>",
		Short:   "Resolve free text to ranked location candidates",
		Example: `  geodexctl resolve "Hồ Hoàn Kiếm" --limit 5`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := limit
			if n == 0 {
				n = o.defaultLimit
			}
			res, err := o.svc.Resolve(cmd.Context(), strings.Join(args, " "), n)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of candidates (default from config)")
	return cmd
}

type areaFlags struct {
	lat, lng float64
	radius   int
}

func (a *areaFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&a.lat, "lat", 0, "center latitude")
	cmd.Flags().Float64Var(&a.lng, "lng", 0, "center longitude")
	cmd.Flags().IntVar(&a.radius, "radius", 1000, "search radius in meters")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
}

func newAmenitiesCmd(o *options) *cobra.Command {
	var (
		area       areaFlags
		categories []string
		smallShops bool
		maxResults int
	)
	cmd := &cobra.Command{
		Use:     "amenities",
		Short:   "List notable amenities around a point, nearest first",
		Example: `  geodexctl amenities --lat 10.7769 --lng 106.7009 --radius 800 --categories education,healthcare`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := amenity.ParseCategories(categories)
			if err != nil {
				return err
			}
			res, err := o.svc.FetchAmenities(cmd.Context(), nearby.AmenityQuery{
				Center:            area.center(),
				RadiusMeters:      area.radius,
				Categories:        cats,
				IncludeSmallShops: smallShops,
				MaxResults:        maxResults,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	area.register(cmd)
	cmd.Flags().StringSliceVar(&categories, "categories", categoryNames(), "amenity categories")
	cmd.Flags().BoolVar(&smallShops, "small-shops", false, "include unnamed small shops")
	cmd.Flags().IntVar(&maxResults, "max", 0, "maximum number of amenities (default from config)")
	return cmd
}

func newInfraCmd(o *options) *cobra.Command {
	var (
		area   areaFlags
		layers []string
	)
	cmd := &cobra.Command{
		Use:     "infra",
		Short:   "List transit infrastructure around a point",
		Example: `  geodexctl infra --lat 21.0285 --lng 105.8542 --layers bus_stop,metro_line`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ls, err := infrastructure.ParseLayers(layers)
			if err != nil {
				return err
			}
			res, err := o.svc.FetchInfrastructure(cmd.Context(), nearby.InfrastructureQuery{
				Center:       area.center(),
				RadiusMeters: area.radius,
				Layers:       ls,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	area.register(cmd)
	cmd.Flags().StringSliceVar(&layers, "layers", layerNames(), "infrastructure layers")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "geodexctl %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// openApp loads config/<env>.yaml and wires the real services.
func openApp(ctx context.Context, env, logLevel string) (Services, int, func(), error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.NewLogger(env, logLevel)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("create logger: %w", err)
	}
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, 0, nil, err
	}
	closeFn := func() {
		a.Close()
		_ = logger.Sync()
	}
	logger.Debug("Services ready", zap.String("env", env))
	return appServices{a}, cfg.Resolve.DefaultLimit, closeFn, nil
}

// remoteOpener serves commands through the geodex HTTP API.
// The server applies its own default limit.
func remoteOpener(server, apiKey string) Opener {
	return func(_ context.Context, _, _ string) (Services, int, func(), error) {
		var opts []geodex.Option
		if apiKey != "" {
			opts = append(opts, geodex.WithAPIKey(apiKey))
		}
		c, err := geodex.New(server, opts...)
		if err != nil {
			return nil, 0, nil, err //nolint:wrapcheck // sdk errors are prefixed
		}
		return c, 0, func() {}, nil
	}
}

type appServices struct{ a *app.App }

func (s appServices) Resolve(ctx context.Context, query string, limit int) ([]candidate.Candidate, error) {
	return s.a.Resolve.Resolve(ctx, query, limit) //nolint:wrapcheck // passthrough
}

func (s appServices) FetchAmenities(ctx context.Context, q nearby.AmenityQuery) ([]amenity.Amenity, error) {
	return s.a.Nearby.FetchAmenities(ctx, q) //nolint:wrapcheck // passthrough
}

func (s appServices) FetchInfrastructure(
	ctx context.Context, q nearby.InfrastructureQuery,
) (map[infrastructure.Layer][]infrastructure.Feature, error) {
	return s.a.Nearby.FetchInfrastructure(ctx, q) //nolint:wrapcheck // passthrough
}

func (a *areaFlags) center() geo.Point {
	return geo.Point{Lat: a.lat, Lng: a.lng}
}

func categoryNames() []string {
	all := amenity.All()
	out := make([]string, len(all))
	for i, c := range all {
		out[i] = string(c)
	}
	return out
}

func layerNames() []string {
	all := infrastructure.AllLayers()
	out := make([]string, len(all))
	for i, l := range all {
		out[i] = string(l)
	}
	return out
}
