package main

import (
	"context"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/mishannn/explore-go/internal/cluster"
	"github.com/mishannn/explore-go/internal/directory"
	"github.com/mishannn/explore-go/internal/explore"
	"github.com/mishannn/explore-go/internal/httpclient"
	"github.com/mishannn/explore-go/internal/location"
	"github.com/mishannn/explore-go/internal/logger"
	"github.com/mishannn/explore-go/internal/tui"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string    `short:"c" long:"config"  env:"CONFIG_FILE"  description:"Path to configuration file" default:"config.yaml"`
	Lang       string    `short:"l" long:"lang"    env:"EXPLORE_LANG" description:"Language tag, overrides language.default"`
	Ladder     bool      `long:"ladder"            description:"Print cluster counts for a ladder of viewports and exit"`
	Deltas     []float64 `short:"d" long:"delta"   description:"Longitude delta of a ladder step, may be repeated"`
	Workers    int       `short:"w" long:"workers" env:"WORKERS"      description:"Ladder workers" default:"4"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	os.Exit(run(opts))
}

// run returns the process exit code. Failures are logged before the log
// file is closed.
func run(opts Options) int {
	// The terminal belongs to the screen; logs go to a file unless asked otherwise.
	if !opts.Ladder && opts.Logger.File == "" {
		opts.Logger.File = "explorer.log"
	}
	closeLog, err := opts.Logger.Setup()
	if err != nil {
		log.Error().Err(err).Msg("Failed to set up logging")
		return 1
	}
	defer closeLog()

	cfg, err := newConfig(opts.ConfigFile)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	lang := cfg.Language.Default
	if opts.Lang != "" {
		lang = opts.Lang
	}
	langs := cfg.Language.Tags
	if !slices.Contains(langs, lang) {
		langs = append([]string{lang}, langs...)
	}

	httpClient := httpclient.New(cfg.Directory.Headers, cfg.Directory.Timeout)
	dir := directory.NewGuard(directory.NewHTTPClient(httpClient, cfg.Directory.ListingsURL, cfg.Directory.CategoriesURL))
	engine := cluster.NewEngine(cfg.Cluster)
	geolocator := location.Static{Granted: cfg.Device.Granted, Fix: cfg.Device.Fix}

	if opts.Ladder {
		if err := runLadder(context.Background(), dir, engine, geolocator, lang, opts.Deltas, opts.Workers, os.Stdout); err != nil {
			log.Error().Err(err).Msg("Failed to build zoom ladder")
			return 1
		}
		return 0
	}

	navigator := &tui.Navigator{}
	screen := explore.NewScreen(explore.Dependencies{
		Directory:      dir,
		Geolocator:     geolocator,
		Navigator:      navigator,
		Engine:         engine,
		Renderers:      []explore.Renderer{explore.RendererFunc(logFrame)},
		LatitudeDelta:  cfg.Viewport.LatitudeDelta,
		LongitudeDelta: cfg.Viewport.LongitudeDelta,
	})

	log.Info().
		Str("lang", lang).
		Strs("langs", langs).
		Float64("radius_px", engine.Options().Radius).
		Int("max_zoom", engine.Options().MaxZoom).
		Msg("Starting explore screen")

	model := tui.NewModel(screen, navigator, lang, langs)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		log.Error().Err(err).Msg("Explore screen failed")
		return 1
	}

	return 0
}

func logFrame(frame explore.Frame) {
	log.Trace().
		Int("pass", frame.Pass).
		Str("lang", frame.Lang).
		Str("category", frame.Selection.String()).
		Int("visible", len(frame.Visible)).
		Int("clusters", len(frame.Clusters)).
		Int("on_screen", len(frame.OnScreen)).
		Str("sheet", frame.Sheet.String()).
		Str("location", frame.LocationState.String()).
		Msg("Frame rendered")
}
