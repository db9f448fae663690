package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"github.com/jaki95/hls-asset-manager/config"
	"github.com/jaki95/hls-asset-manager/internal/app"
	"github.com/jaki95/hls-asset-manager/internal/asset"
	"github.com/jaki95/hls-asset-manager/internal/bridge"
	"github.com/jaki95/hls-asset-manager/internal/state"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "Path to the configuration file")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "  %s [flags] status | list | set <asset> <state> | reset <asset>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer application.Close()

	args := flag.Args()
	command := "status"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "status":
		err = status(ctx, application)
	case "list":
		err = list(ctx, application)
	case "set":
		if len(args) != 3 {
			flag.Usage()
			os.Exit(2)
		}
		err = set(ctx, application, args[1], args[2])
	case "reset":
		if len(args) != 2 {
			flag.Usage()
			os.Exit(2)
		}
		err = reset(ctx, application, args[1])
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		_ = application.Close()
		log.Fatal(err)
	}
}

func status(ctx context.Context, a *app.App) error {
	assets := a.Catalog.Assets()
	states := make([]asset.DownloadState, len(assets))
	downloaded := 0
	for i, as := range assets {
		s, err := state.Lookup(ctx, a.Store, as.Name())
		if err != nil {
			return err
		}
		states[i] = s
		if s == asset.Downloaded {
			downloaded++
		}
	}

	bar := progressbar.NewOptions(
		len(assets),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Downloaded assets[reset]"),
	)
	if err := bar.Set(downloaded); err != nil {
		return err
	}
	fmt.Println()

	for i, as := range assets {
		protection := ""
		if as.IsProtected() {
			protection = " (protected)"
		}
		fmt.Printf("%-16s %-32s %s%s\n", states[i].Label(), as.Name(), as.Media().Locator(), protection)
	}

	unknown, err := a.Downloads.UnknownBundles()
	if err != nil {
		return err
	}
	for _, bundle := range unknown {
		fmt.Printf("%-16s %-32s %s\n", "UNKNOWN", "-", bundle)
	}
	return nil
}

func list(ctx context.Context, a *app.App) error {
	results := make([]bridge.Result, 0, a.Catalog.Len())
	for _, as := range a.Catalog.Assets() {
		s, ok, err := a.Store.State(ctx, as.Name())
		if err != nil {
			return err
		}
		snap := bridge.Snapshot{}
		if ok {
			snap = snap.WithState(s)
		}
		results = append(results, bridge.Project(as, bridge.ActionList, snap))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func set(ctx context.Context, a *app.App, name, value string) error {
	as, err := a.Catalog.Asset(name)
	if err != nil {
		return err
	}
	s, err := asset.ParseDownloadState(value)
	if err != nil {
		return err
	}
	if _, _, err := a.Downloads.SetState(ctx, as, s); err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", as.Name(), s.Label())
	return nil
}

func reset(ctx context.Context, a *app.App, name string) error {
	as, err := a.Catalog.Asset(name)
	if err != nil {
		return err
	}
	if err := a.Downloads.Reset(ctx, as); err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", as.Name(), asset.NotDownloaded.Label())
	return nil
}
