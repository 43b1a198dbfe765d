// Package main provides the annotate CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/annotate/internal/config"
	"github.com/gauthierbraillon/annotate/internal/dislike"
	"github.com/gauthierbraillon/annotate/internal/display"
	"github.com/gauthierbraillon/annotate/internal/enrich"
	"github.com/gauthierbraillon/annotate/internal/listing"
	"github.com/gauthierbraillon/annotate/internal/sponsorblock"
	"github.com/gauthierbraillon/annotate/internal/stream"
	"github.com/gauthierbraillon/annotate/internal/transport"
	"github.com/gauthierbraillon/annotate/internal/youtube"
	"github.com/gauthierbraillon/annotate/pkg/browser"
)

var version = "dev"

const requestTimeout = 30 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion(v string, info *debug.BuildInfo) string {
	if v != "dev" {
		return v
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	verbose bool
	envFile string

	cfg        config.Config
	logger     *slog.Logger
	downloader transport.Downloader
}

func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}

	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.downloader = transport.NewClient(
		transport.WithUserAgent(cfg.UserAgent),
		transport.WithMinInterval(cfg.MinInterval),
		transport.WithLogger(a.logger),
	)
	return nil
}

func (a *app) formatter(w io.Writer) *display.TerminalFormatter {
	return display.ForWriter(w)
}

// newRootCmd creates the root command for annotate CLI.
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "annotate",
		Short: "Community annotations for YouTube videos",
		Long: "Annotate looks up crowd-sourced skip segments and public rating counts for videos,\n" +
			"and lists the trending page with the same normalised metadata.",
		Version:      resolveVersion(version, readBuildInfo()),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.SetVersionTemplate("annotate version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Log requests and swallowed failures to stderr")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Optional file of ANNOTATE_* variables")

	rootCmd.AddCommand(newSegmentsCmd(a))
	rootCmd.AddCommand(newHighlightCmd(a))
	rootCmd.AddCommand(newRatingCmd(a))
	rootCmd.AddCommand(newShowCmd(a))
	rootCmd.AddCommand(newTrendingCmd(a))
	rootCmd.AddCommand(newSubmitCmd(a))
	rootCmd.AddCommand(newVoteCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

func readBuildInfo() *debug.BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return info
}

// newSegmentsCmd creates the segments subcommand.
func newSegmentsCmd(a *app) *cobra.Command {
	var merge, asJSON bool

	cmd := &cobra.Command{
		Use:   "segments <video>",
		Short: "List skip segments for a video",
		Long:  "List the crowd-sourced segments of a video in the configured categories.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := streamFromArg(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			client := sponsorblock.NewClient(a.downloader, sponsorblock.WithLogger(a.logger))
			segs, err := client.FetchSegments(ctx, s, a.cfg.Segments)
			if err != nil {
				return fmt.Errorf("segment service returned unusable data: %w", err)
			}
			if merge {
				segs = sponsorblock.MergeChains(segs)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), segs)
			}

			f := a.formatter(cmd.OutOrStdout())
			if len(segs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No segments found.")
				return nil
			}
			for _, seg := range segs {
				fmt.Fprintln(cmd.OutOrStdout(), f.FormatSegment(seg))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&merge, "merge", "m", false, "Merge overlapping segments into chains")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print segments as JSON")

	return cmd
}

// newHighlightCmd creates the highlight subcommand.
func newHighlightCmd(a *app) *cobra.Command {
	var open bool

	cmd := &cobra.Command{
		Use:   "highlight <video>",
		Short: "Print or open the video at its community highlight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := streamFromArg(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			settings := sponsorblock.Settings{APIURL: a.cfg.Segments.APIURL, Highlight: true}
			client := sponsorblock.NewClient(a.downloader, sponsorblock.WithLogger(a.logger))
			segs, err := client.FetchSegments(ctx, s, settings)
			if err != nil {
				return fmt.Errorf("segment service returned unusable data: %w", err)
			}

			for _, seg := range segs {
				if seg.Category != sponsorblock.CategoryHighlight {
					continue
				}
				link, err := browser.AtTime(s.URL, seg.StartMillis)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), link)
				if open {
					return browser.Open(link)
				}
				return nil
			}

			return fmt.Errorf("no highlight found for %s", s.ID)
		},
	}

	cmd.Flags().BoolVarP(&open, "open", "o", false, "Open the link in the default browser")

	return cmd
}

// newRatingCmd creates the rating subcommand.
func newRatingCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "rating <video>",
		Short: "Show like and dislike counts for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := streamFromArg(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			client := dislike.NewClient(a.downloader, dislike.WithLogger(a.logger))
			info := client.FetchRatingInfo(ctx, s, a.cfg.Rating)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			if info == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No rating available.")
				return nil
			}

			item := enrich.Item{Stream: s, Rating: info, Segments: []sponsorblock.Segment{}}
			fmt.Fprint(cmd.OutOrStdout(), a.formatter(cmd.OutOrStdout()).FormatItem(item))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the rating as JSON")

	return cmd
}

// newShowCmd creates the show subcommand, which decorates several videos at once.
func newShowCmd(a *app) *cobra.Command {
	var workers int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <video>...",
		Short: "Show rating and segments for one or more videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			streams := make([]stream.Info, 0, len(args))
			for _, arg := range args {
				s, err := streamFromArg(arg)
				if err != nil {
					return err
				}
				streams = append(streams, s)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			items := a.enricher().DecorateAll(ctx, streams, workers)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			fmt.Fprint(cmd.OutOrStdout(), a.formatter(cmd.OutOrStdout()).FormatItems(items))
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of videos looked up concurrently")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	return cmd
}

func (a *app) enricher() *enrich.Enricher {
	return enrich.New(a.downloader, enrich.Options{
		Segments: a.cfg.Segments,
		Rating:   a.cfg.Rating,
	}, enrich.WithLogger(a.logger))
}

// newTrendingCmd creates the trending subcommand.
func newTrendingCmd(a *app) *cobra.Command {
	var limit, workers int
	var annotate, asJSON bool

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List trending videos",
		Long:  "List the trending page for the configured language and country.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			extractor := youtube.NewTrendingExtractor(a.downloader,
				youtube.WithBaseURL(a.cfg.BrowseURL),
				youtube.WithLocalization(a.cfg.Localization),
				youtube.WithLogger(a.logger),
			)
			session := listing.NewSession[youtube.StreamItem](extractor)

			items, itemErrs, err := session.Collect(ctx, limit)
			if err != nil {
				return fmt.Errorf("could not load trending: %w", err)
			}
			for _, itemErr := range itemErrs {
				a.logger.Debug("trending item skipped", "error", itemErr)
			}

			name, err := extractor.Name()
			if err != nil {
				a.logger.Debug("trending name unavailable", "error", err)
			}

			if annotate {
				streams := make([]stream.Info, 0, len(items))
				for _, item := range items {
					streams = append(streams, stream.Info{ID: item.ID, URL: item.URL, Name: item.Name})
				}
				decorated := a.enricher().DecorateAll(ctx, streams, workers)
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), decorated)
				}
				fmt.Fprint(cmd.OutOrStdout(), a.formatter(cmd.OutOrStdout()).FormatItems(decorated))
				return nil
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			fmt.Fprint(cmd.OutOrStdout(), a.formatter(cmd.OutOrStdout()).FormatListing(name, items, itemErrs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of videos to display (0 for all)")
	cmd.Flags().BoolVarP(&annotate, "annotate", "a", false, "Add rating and segments to every video")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of videos annotated concurrently")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	return cmd
}

// newSubmitCmd creates the submit subcommand.
func newSubmitCmd(a *app) *cobra.Command {
	var category string
	var start, end float64

	cmd := &cobra.Command{
		Use:   "submit <video>",
		Short: "Submit a new segment",
		Long:  "Submit a segment under a fresh anonymous user id. Times are in seconds.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := streamFromArg(args[0])
			if err != nil {
				return err
			}

			c, err := sponsorblock.ParseCategory(category)
			if err != nil {
				return fmt.Errorf("invalid category %q", category)
			}
			if end < start {
				return fmt.Errorf("invalid range: end %.3f is before start %.3f", end, start)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			seg := sponsorblock.NewSegment("", start*1000, end*1000, c, "")
			client := sponsorblock.NewClient(a.downloader, sponsorblock.WithLogger(a.logger))
			outcome := client.SubmitSegment(ctx, s, seg, a.cfg.Segments.APIURL)

			fmt.Fprint(cmd.OutOrStdout(), a.formatter(cmd.OutOrStdout()).FormatOutcome("submit", outcome))
			if !outcome.OK() {
				return fmt.Errorf("segment was not accepted")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", string(sponsorblock.CategorySponsor), "Segment category")
	cmd.Flags().Float64Var(&start, "start", 0, "Start time in seconds")
	cmd.Flags().Float64Var(&end, "end", 0, "End time in seconds")

	return cmd
}

// newVoteCmd creates the vote subcommand.
func newVoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vote <uuid> <up|down|undo>",
		Short: "Vote on an existing segment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vote, err := parseVote(args[1])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			client := sponsorblock.NewClient(a.downloader, sponsorblock.WithLogger(a.logger))
			outcome := client.VoteOnSegment(ctx, args[0], a.cfg.Segments.APIURL, vote)

			fmt.Fprint(cmd.OutOrStdout(), a.formatter(cmd.OutOrStdout()).FormatOutcome("vote", outcome))
			if !outcome.OK() {
				return fmt.Errorf("vote was not accepted")
			}
			return nil
		},
	}

	return cmd
}

func parseVote(s string) (sponsorblock.Vote, error) {
	switch strings.ToLower(s) {
	case "up":
		return sponsorblock.VoteUp, nil
	case "down":
		return sponsorblock.VoteDown, nil
	case "undo":
		return sponsorblock.VoteUndo, nil
	}
	return 0, fmt.Errorf("invalid vote %q: must be 'up', 'down' or 'undo'", s)
}

// newConfigCmd creates the config subcommand.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long:  "Show the settings resolved from ANNOTATE_* variables and the optional .env file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := a.cfg
			fmt.Fprintf(out, "Segment service: %s\n", cfg.Segments.APIURL)
			fmt.Fprintf(out, "Categories: %s\n", sponsorblock.EncodeCategories(cfg.Segments.Categories()))
			fmt.Fprintf(out, "Rating service: %s\n", cfg.Rating.APIURL)
			fmt.Fprintf(out, "Browse URL: %s\n", cfg.BrowseURL)
			fmt.Fprintf(out, "Localization: %s-%s\n", cfg.Localization.Language, cfg.Localization.Country)
			fmt.Fprintf(out, "User agent: %s\n", cfg.UserAgent)
			fmt.Fprintf(out, "Min interval: %s\n", cfg.MinInterval)
			return nil
		},
	}

	return cmd
}

// streamFromArg accepts a bare video id or a watch URL.
func streamFromArg(arg string) (stream.Info, error) {
	arg = strings.TrimSpace(arg)
	if !strings.Contains(arg, "://") {
		if arg == "" {
			return stream.Info{}, fmt.Errorf("missing video id")
		}
		return stream.FromVideoID(arg), nil
	}

	u, err := url.Parse(arg)
	if err != nil {
		return stream.Info{}, fmt.Errorf("invalid video URL %q: %w", arg, err)
	}

	id := u.Query().Get("v")
	if u.Host == "youtu.be" {
		id = strings.TrimPrefix(u.Path, "/")
	}
	if id == "" {
		return stream.Info{}, fmt.Errorf("invalid video URL %q: no video id", arg)
	}

	if u.Host == "www.youtube.com" || u.Host == "youtube.com" || u.Host == "youtu.be" || u.Host == "m.youtube.com" {
		return stream.FromVideoID(id), nil
	}
	return stream.Info{ID: id, URL: arg}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
