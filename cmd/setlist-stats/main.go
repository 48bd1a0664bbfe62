package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/handiism/setlist-stats/internal/analysis"
	"github.com/handiism/setlist-stats/internal/config"
	"github.com/handiism/setlist-stats/internal/setlist"
)

func main() {
	// Command line flags
	var (
		inputFlag     = flag.String("input", "", "Setlist CSV file path or http(s) URL")
		configFlag    = flag.String("config", "", "Path to config file (.json, .yaml or .yml)")
		outputFlag    = flag.String("output", "", "Output directory (overrides config)")
		formatFlag    = flag.String("format", "", "Export formats, comma-separated: json,csv,pdf (overrides config)")
		topFlag       = flag.Int("top", 0, "Number of top songs to print (overrides config)")
		songFlag      = flag.String("song", "", "Print every appearance of songs matching this text")
		showFlag      = flag.String("show", "", "Print the setlist of the show on this date")
		playlistsFlag = flag.Bool("playlists", false, "Create a playlist per show from the music library")
		libraryFlag   = flag.String("library", "", "Music library directory used for playlists (overrides config)")
		tagDirFlag    = flag.String("tag-dir", "", "Directory of live recordings to tag (requires -tag-show)")
		tagShowFlag   = flag.String("tag-show", "", "Date of the show recorded in -tag-dir")
		countFlag     = flag.String("count", "", "Play count mode: shows or rows (overrides config)")
		noExportFlag  = flag.Bool("no-export", false, "Print results without writing export files")
		verboseFlag   = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *inputFlag != "" {
		settings.InputPath = *inputFlag
	} else if settings.InputPath == "" && flag.NArg() > 0 {
		settings.InputPath = flag.Arg(0)
	}
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}
	if *formatFlag != "" {
		settings.ExportFormats = strings.Split(*formatFlag, ",")
	}
	if *topFlag != 0 {
		settings.TopSongs = *topFlag
	}
	if *playlistsFlag {
		settings.CreatePlaylists = true
	}
	if *libraryFlag != "" {
		settings.LibraryPath = *libraryFlag
	}
	if *countFlag != "" {
		settings.PlayCount = *countFlag
	}

	if err := settings.Validate(); err != nil {
		if errors.Is(err, config.ErrNoInput) {
			fmt.Println("Setlist Stats - Concert setlist statistics")
			fmt.Println()
			fmt.Println("Usage:")
			fmt.Println("  setlist-stats -input <CSV path or URL> [options]")
			fmt.Println("  setlist-stats <CSV path or URL> [options]")
			fmt.Println()
			fmt.Println("For interactive mode, use: setlist-tui")
			fmt.Println()
			flag.PrintDefaults()
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error in settings: %v\n", err)
		os.Exit(1)
	}
	if (*tagDirFlag == "") != (*tagShowFlag == "") {
		fmt.Fprintln(os.Stderr, "Error: -tag-dir and -tag-show must be given together")
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create manager with progress callback
	manager := analysis.NewManager(settings, func(event analysis.ProgressEvent) {
		if event.Level == analysis.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case analysis.LevelError:
			prefix = "✗ "
		case analysis.LevelWarning:
			prefix = "! "
		case analysis.LevelSuccess:
			prefix = "✓ "
		case analysis.LevelInfo:
			prefix = "› "
		default:
			prefix = "  "
		}

		fmt.Fprintln(os.Stderr, prefix+event.Message)
	})

	if err := manager.Load(ctx); err != nil {
		exitOnError(ctx, "loading setlists", err)
	}
	table := manager.Table()

	printStats(table)
	if err := printTopSongs(table, settings.TopSongs); err != nil {
		exitOnError(ctx, "ranking songs", err)
	}

	if *songFlag != "" {
		printAppearances(table, *songFlag)
	}
	if *showFlag != "" {
		if err := printShow(table, *showFlag); err != nil {
			exitOnError(ctx, "reading show", err)
		}
	}

	if *tagDirFlag != "" {
		if _, err := manager.TagShow(ctx, *tagDirFlag, *tagShowFlag); err != nil {
			exitOnError(ctx, "tagging recordings", err)
		}
	}

	if *noExportFlag {
		return
	}

	fmt.Println()
	if err := manager.Run(ctx); err != nil {
		exitOnError(ctx, "exporting", err)
	}
}

func printStats(table *setlist.Table) {
	stats := table.Stats()

	fmt.Println("Concert Journey Statistics:")
	fmt.Printf("- %d shows\n", stats.TotalShows)
	fmt.Printf("- %d total songs\n", stats.TotalSongs)
	fmt.Printf("- %d unique songs\n", stats.UniqueSongs)
	fmt.Printf("- %d venues\n", stats.TotalVenues)
	if stats.DateRange != nil {
		fmt.Printf("- %s to %s\n", stats.DateRange.FirstShow, stats.DateRange.LastShow)
	}
	fmt.Printf("- %d covers, %d special performances\n", stats.Covers, stats.SpecialPerformances)
}

func printTopSongs(table *setlist.Table, n int) error {
	songs, err := table.TopSongs(n)
	if err != nil {
		return err
	}

	unit := "shows"
	if table.CountMode() == setlist.CountRows {
		unit = "plays"
	}

	fmt.Printf("\nTop %d Most Played Songs:\n", n)
	for _, s := range songs {
		fmt.Printf("- %s: %d %s (%.1f%%)\n", s.CleanSong, s.PlayCount, unit, s.Percentage)
	}
	return nil
}

func printAppearances(table *setlist.Table, query string) {
	apps := table.FindSongAppearances(query)

	fmt.Printf("\nAppearances of %q: %d\n", query, len(apps))
	for _, a := range apps {
		fmt.Printf("- %s  %s @ %s\n", a.Date, a.Song, a.Venue)
	}
}

func printShow(table *setlist.Table, date string) error {
	songs, err := table.ShowSetlistString(date)
	if err != nil {
		return err
	}

	fmt.Printf("\nSetlist for %s:\n", date)
	if len(songs) == 0 {
		fmt.Println("  (no show on this date)")
	}
	for i, song := range songs {
		fmt.Printf("%3d. %s\n", i+1, song)
	}
	return nil
}

func exitOnError(ctx context.Context, action string, err error) {
	if ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "\nCancelled.")
		os.Exit(130)
	}
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", action, err)
	os.Exit(1)
}
