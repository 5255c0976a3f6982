package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/RedECSEngine/RandomDungeonGenerator/internal/render"
	"github.com/RedECSEngine/RandomDungeonGenerator/internal/server"
	"github.com/RedECSEngine/RandomDungeonGenerator/internal/storage"
	"github.com/RedECSEngine/RandomDungeonGenerator/internal/version"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/dungeon"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/geometry"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/logger"
	"github.com/RedECSEngine/RandomDungeonGenerator/pkg/utils"
)

func init() {
	logger.Init()
}

type options struct {
	seed       int64
	seedName   string
	rooms      int
	width      float64
	height     float64
	hallway    float64
	maxRetries int
	pngPath    string
	scale      float64
	saveDir    string
	loadPath   string
	serve      bool
	asJSON     bool
	markers    bool
	version    bool
	quiet      bool
}

func main() {
	// 1. Парсинг конфигурации
	defaults := dungeon.DefaultConfig()
	var opts options
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&opts.seed, "seed", 0, "Generator seed (0 for random)")
	flag.StringVar(&opts.seedName, "seed-name", "", "Derive the seed from a name (ignored when -seed is set)")
	flag.IntVar(&opts.rooms, "rooms", defaults.InitialRoomCreationCount, "Number of rooms in the initial layout")
	flag.Float64Var(&opts.width, "width", defaults.DungeonSize.Width, "Dungeon width in cells")
	flag.Float64Var(&opts.height, "height", defaults.DungeonSize.Height, "Dungeon height in cells")
	flag.Float64Var(&opts.hallway, "hallway", defaults.HallwayWidth, "Hallway width in cells")
	flag.IntVar(&opts.maxRetries, "max-retries", 0, "Layout restarts before giving up (0 for unlimited)")
	flag.StringVar(&opts.pngPath, "png", "", "Write a PNG rendering to this path")
	flag.Float64Var(&opts.scale, "scale", 8, "Pixels per cell for -png")
	flag.StringVar(&opts.saveDir, "save", "", "Directory to save the layout as .dgl")
	flag.StringVar(&opts.loadPath, "load", "", "Path to a .dgl layout to render instead of generating")
	flag.BoolVar(&opts.serve, "serve", false, "Run the step-streaming WebSocket server")
	flag.BoolVar(&opts.asJSON, "json", false, "Print the layout as JSON instead of ASCII")
	flag.BoolVar(&opts.markers, "markers", false, "Mark room centers on the ASCII map")
	flag.BoolVar(&opts.version, "version", false, "Print version and exit")
	flag.BoolVar(&opts.quiet, "quiet", false, "Disable log output")
	flag.Parse()

	if opts.quiet {
		logger.Silence()
	}

	if opts.version {
		fmt.Println(version.String())
		return
	}

	if opts.serve {
		serve()
		return
	}

	var (
		layout *storage.Layout
		err    error
	)
	if opts.loadPath != "" {
		// РЕЖИМ ЗАГРУЗКИ
		layout, err = storage.NewLayoutService(".").Load(opts.loadPath)
		if err != nil {
			logger.Log.Fatal("Failed to load layout: ", err)
		}
		logger.Log.WithField("path", opts.loadPath).Info("Layout loaded")
	} else {
		layout, err = generate(opts)
		if err != nil {
			logger.Log.Fatal(err)
		}
	}

	if opts.saveDir != "" {
		if _, err := storage.NewLayoutService(opts.saveDir).Save(layout); err != nil {
			logger.Log.Fatal("Failed to save layout: ", err)
		}
	}

	if opts.pngPath != "" {
		if err := render.PNG(opts.pngPath, layout, opts.scale); err != nil {
			logger.Log.Fatal("Failed to render png: ", err)
		}
		logger.Log.WithField("path", opts.pngPath).Info("PNG written")
	}

	if err := printLayout(layout, opts); err != nil {
		logger.Log.Fatal(err)
	}
}

func generate(opts options) (*storage.Layout, error) {
	builder := dungeon.NewBuilder().
		WithSize(opts.width, opts.height).
		WithRooms(opts.rooms).
		WithHallwayWidth(opts.hallway)

	cfg := builder.Config()
	builder.WithRetryPolicy(cfg.MaximumStepsBeforeRetry, opts.maxRetries)

	switch {
	case opts.seed != 0:
		builder.WithSeed(opts.seed)
		logger.Log.Infof("Using explicit seed: %d", opts.seed)
	case opts.seedName != "":
		seed := utils.StringToSeed(opts.seedName)
		builder.WithSeed(seed)
		logger.Log.Infof("Using seed %d from name %q", seed, opts.seedName)
	default:
		logger.Log.Infof("Using random seed: %d", cfg.Seed)
	}

	g, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	g.RunCompleteGeneration()

	return storage.LayoutFromGenerator(g)
}

func printLayout(layout *storage.Layout, opts options) error {
	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(layout)
	}

	var markers []geometry.Point
	if opts.markers {
		for _, r := range layout.Rooms {
			markers = append(markers, r.Center())
		}
	}
	fmt.Print(render.ASCII(layout.Grid(), markers...))

	logger.Log.WithFields(logrus.Fields{
		"seed":     layout.Seed,
		"rooms":    len(layout.Rooms),
		"hallways": len(layout.Hallways),
	}).Info("Done.")
	return nil
}

func serve() {
	port := os.Getenv("DG_PORT")
	if port == "" {
		port = "8080"
	}

	logger.Log.Info(version.String())

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	srv := server.New(port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")
}
