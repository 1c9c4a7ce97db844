// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ManuGH/arteloo/internal/addon"
	"github.com/ManuGH/arteloo/internal/arte"
	xglog "github.com/ManuGH/arteloo/internal/log"
	"github.com/ManuGH/arteloo/internal/version"
)

// inspectLogLevel keeps client warnings visible without drowning the output.
const inspectLogLevel = "warn"

// withClient loads the configuration, logs to stderr and hands a client to fn.
func withClient(cmd *cobra.Command, opts *rootOptions, fn func(context.Context, *arte.Client) error) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	level := inspectLogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	xglog.Configure(xglog.Config{
		Level:   level,
		Output:  cmd.ErrOrStderr(),
		Service: cfg.LogService,
		Version: version.Version,
	})

	store, stop := newStore(cfg.Cache)
	defer stop()

	return fn(cmd.Context(), arte.New(store, clientOptions(cfg)))
}

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	var (
		limit  int
		search string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "catalog [home|CIN|DOR|SER|<category code>]",
		Short: "List an aggregated catalog page",
		Example: `  arteloo catalog home
  arteloo catalog CIN --limit 10
  arteloo catalog DOR --search "ocean" --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := "home"
			if len(args) == 1 {
				page = args[0]
			}

			return withClient(cmd, opts, func(ctx context.Context, c *arte.Client) error {
				var videos []arte.VideoSummary
				if strings.EqualFold(page, "home") {
					videos = c.Homepage(ctx)
				} else {
					videos = c.Category(ctx, strings.ToUpper(page))
				}
				total := len(videos)
				videos = addon.FilterSearch(videos, strings.TrimSpace(search))
				if limit > 0 && len(videos) > limit {
					videos = videos[:limit]
				}

				if asJSON {
					return writeJSON(cmd.OutOrStdout(), videos)
				}
				renderSummaries(cmd.OutOrStdout(), videos, total)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to print (0 prints all)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "keep entries whose title or subtitle matches")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw records as JSON")
	return cmd
}

// metaResult is the JSON shape of the meta command.
type metaResult struct {
	Detail   *arte.VideoDetail        `json:"detail,omitempty"`
	Episodes []arte.CollectionEpisode `json:"episodes,omitempty"`
}

func newMetaCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "meta <program or collection id>",
		Short: "Show program details, or the episodes of a collection",
		Example: `  arteloo meta 120387-000-A
  arteloo meta RC-014095`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := arte.ParseID(strings.TrimPrefix(args[0], addon.IDPrefix))
			if id.IsZero() {
				return fmt.Errorf("empty id")
			}

			return withClient(cmd, opts, func(ctx context.Context, c *arte.Client) error {
				var res metaResult
				if d, ok := c.ProgramDetail(ctx, id.String()).Get(); ok {
					res.Detail = &d
				}
				if id.IsCollection() {
					res.Episodes = c.CollectionEpisodes(ctx, id.String())
				}
				if res.Detail == nil && len(res.Episodes) == 0 {
					return fmt.Errorf("no metadata for %s", id)
				}

				if asJSON {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				renderMeta(cmd.OutOrStdout(), id, res)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw records as JSON")
	return cmd
}

func newStreamCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stream <program id>",
		Short: "Resolve the French HLS stream of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := arte.ParseID(strings.TrimPrefix(args[0], addon.IDPrefix))
			if id.IsZero() {
				return fmt.Errorf("empty id")
			}

			return withClient(cmd, opts, func(ctx context.Context, c *arte.Client) error {
				var url string
				if id.IsLive() {
					live, ok := c.LiveChannel(ctx).Get()
					if ok {
						url = live.StreamURL.OrEmpty()
					}
				} else {
					url = c.StreamURL(ctx, id.String()).OrEmpty()
				}
				if url == "" {
					return fmt.Errorf("no stream for %s", id)
				}

				if asJSON {
					return writeJSON(cmd.OutOrStdout(), map[string]string{"program_id": id.String(), "url": url})
				}
				renderStream(cmd.OutOrStdout(), id, url)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newLiveCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Show what is on the live channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, opts, func(ctx context.Context, c *arte.Client) error {
				live, ok := c.LiveChannel(ctx).Get()
				if !ok {
					return fmt.Errorf("live channel unavailable")
				}

				if asJSON {
					return writeJSON(cmd.OutOrStdout(), live)
				}
				renderLive(cmd.OutOrStdout(), live)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw record as JSON")
	return cmd
}
