package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"fwbrowse/pkg/cache"
	"fwbrowse/pkg/catalog"
	"fwbrowse/pkg/config"
	"fwbrowse/pkg/layout"
	"fwbrowse/pkg/navigator"
	"fwbrowse/pkg/picker"
)

const (
	exitOK      = 0
	exitError   = 1
	exitAborted = 2
)

var args struct {
	Config  string `help:"Path to the config file." type:"path"`
	BaseURL string `help:"Catalog base URL (overrides the config file)." name:"base-url"`
	Strict  bool   `help:"Validate catalog responses against the expected schema."`

	Browse struct {
		Device   string `help:"Skip the device picker and use this device."`
		Firmware string `help:"Skip the firmware picker and use this firmware version."`
		Dataset  string `help:"Dataset file to fetch."`
		Output   string `help:"Write the document to this file instead of stdout." type:"path"`
		NoCache  bool   `help:"Bypass the local dataset cache."`
	} `cmd:"" default:"1" help:"Walk the catalog interactively and fetch a dataset."`

	Devices struct{} `cmd:"" help:"List devices in the catalog."`

	Firmwares struct {
		Device string `arg:"" help:"Device codename."`
	} `cmd:"" help:"List firmware versions for a device."`

	Layout struct {
		Device   string `help:"Skip the device picker and use this device."`
		Firmware string `help:"Skip the firmware picker and use this firmware version."`
		Layer    int    `help:"Layer to render." default:"0"`
		NoCache  bool   `help:"Bypass the local dataset cache."`
	} `cmd:"" help:"Render a firmware layout as a grid of action names."`
}

func main() {
	cli := kong.Parse(&args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cli.Command())
	stop()
	os.Exit(code)
}

func run(ctx context.Context, command string) int {
	cfgPath := args.Config
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultPath()
		if err != nil {
			slog.Error("Failed to locate config", "error", err)
			return exitError
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "path", cfgPath, "error", err)
		return exitError
	}

	baseURL := cfg.BaseURL
	if args.BaseURL != "" {
		baseURL = args.BaseURL
	}
	client := catalog.NewClient(baseURL)
	client.Strict = args.Strict

	switch command {
	case "browse":
		return runBrowse(ctx, client, cfg)
	case "devices":
		return runDevices(ctx, client)
	case "firmwares <device>":
		return runFirmwares(ctx, client)
	case "layout":
		return runLayout(ctx, client, cfg)
	default:
		panic(command)
	}
}

// source wires the dataset cache in front of the client unless disabled.
func source(client *catalog.Client, cfg config.Config, noCache bool) navigator.Source {
	if noCache || !cfg.Cache {
		return client
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		slog.Warn("Dataset cache unavailable", "error", err)
		return client
	}
	store, err := cache.Open(dir)
	if err != nil {
		slog.Warn("Dataset cache unavailable", "dir", dir, "error", err)
		return client
	}
	return &cache.Source{Fetcher: client, Store: store}
}

func runBrowse(ctx context.Context, client *catalog.Client, cfg config.Config) int {
	dataset := args.Browse.Dataset
	if dataset == "" {
		dataset = cfg.Dataset
	}

	nav := &navigator.Navigator{
		Source:   source(client, cfg, args.Browse.NoCache),
		Selector: picker.New(),
	}
	path, doc, err := nav.Run(ctx, navigator.Overrides{
		Device:   args.Browse.Device,
		Firmware: args.Browse.Firmware,
		Dataset:  dataset,
	})
	if errors.Is(err, navigator.ErrAborted) {
		fmt.Fprintln(os.Stderr, "aborted")
		return exitAborted
	}
	if err != nil {
		slog.Error("Navigation failed", "error", err)
		return exitError
	}

	if args.Browse.Output != "" {
		if err := os.WriteFile(args.Browse.Output, doc, 0644); err != nil {
			slog.Error("Failed to write output", "path", args.Browse.Output, "error", err)
			return exitError
		}
		slog.Info("Wrote dataset", "device", path.Device, "firmware", path.Firmware,
			"dataset", path.Dataset, "path", args.Browse.Output)
		return exitOK
	}

	if _, err := os.Stdout.Write(doc); err != nil {
		slog.Error("Failed to write document", "error", err)
		return exitError
	}
	return exitOK
}

func runDevices(ctx context.Context, client *catalog.Client) int {
	entries, err := client.Devices(ctx)
	if err != nil {
		slog.Error("Failed to fetch device catalog", "error", err)
		return exitError
	}
	for _, name := range catalog.Names(entries) {
		fmt.Println(name)
	}
	return exitOK
}

func runFirmwares(ctx context.Context, client *catalog.Client) int {
	entries, err := client.Firmwares(ctx, args.Firmwares.Device)
	if err != nil {
		slog.Error("Failed to fetch firmware catalog", "device", args.Firmwares.Device, "error", err)
		return exitError
	}
	for _, name := range catalog.Names(entries) {
		fmt.Println(name)
	}
	return exitOK
}

func runLayout(ctx context.Context, client *catalog.Client, cfg config.Config) int {
	src := source(client, cfg, args.Layout.NoCache)
	nav := &navigator.Navigator{Source: src, Selector: picker.New()}

	path, err := nav.ResolvePair(ctx, navigator.Overrides{
		Device:   args.Layout.Device,
		Firmware: args.Layout.Firmware,
	})
	if errors.Is(err, navigator.ErrAborted) {
		fmt.Fprintln(os.Stderr, "aborted")
		return exitAborted
	}
	if err != nil {
		slog.Error("Navigation failed", "error", err)
		return exitError
	}

	doc, err := fetchLayout(ctx, src, path)
	if err != nil {
		slog.Error("Failed to fetch layout", "error", err)
		return exitError
	}
	actions, err := fetchActions(ctx, src, path)
	if err != nil {
		slog.Error("Failed to fetch actions", "error", err)
		return exitError
	}

	grid, err := doc.Grid(args.Layout.Layer, actions)
	if err != nil {
		slog.Error("Failed to build layout grid", "layer", args.Layout.Layer, "error", err)
		return exitError
	}

	fmt.Printf("Layer %d (%s %s):\n", args.Layout.Layer, path.Device, path.Firmware)
	fmt.Print(layout.Render(grid))
	return exitOK
}

func fetchLayout(ctx context.Context, src navigator.Source, path navigator.Path) (*layout.Document, error) {
	data, err := src.Dataset(ctx, path.Device, path.Firmware, "layout.json")
	if err != nil {
		return nil, err
	}
	data, err = catalog.NormalizeText(data)
	if err != nil {
		return nil, err
	}
	return layout.ParseDocument(data)
}

func fetchActions(ctx context.Context, src navigator.Source, path navigator.Path) (layout.ActionMap, error) {
	data, err := src.Dataset(ctx, path.Device, path.Firmware, navigator.DefaultDataset)
	if err != nil {
		return nil, err
	}
	data, err = catalog.NormalizeText(data)
	if err != nil {
		return nil, err
	}
	return layout.ParseActions(data)
}
