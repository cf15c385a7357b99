package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/eringen/route360"
)

// version is set at build time via ldflags.
var version = "dev"

// CLI definition and global flags.
type CLI struct {
	Config  string `short:"c" help:"Site configuration file" default:"site.toml"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Build   BuildCmd   `cmd:"" help:"Build the site into the output directory"`
	Serve   ServeCmd   `cmd:"" help:"Build and preview the site locally"`
	New     NewCmd     `cmd:"" help:"Create a new site skeleton"`
	Version VersionCmd `cmd:"" help:"Print the route360 version"`
}

// AfterApply runs after flag parsing and sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func (c *CLI) app(output string) (*route360.App, error) {
	cfg, err := route360.LoadConfig(c.Config)
	if err != nil {
		return nil, err
	}
	opts := []route360.Option{route360.WithLogger(slog.Default())}
	if output != "" {
		opts = append(opts, route360.WithOutputDir(output))
	}
	return route360.New(cfg, opts...), nil
}

// BuildCmd writes the static site once.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory (overrides the config)"`
}

func (b *BuildCmd) Run(root *CLI) error {
	app, err := root.app(b.Output)
	if err != nil {
		return err
	}
	defer app.Close()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	_, err = app.Build(ctx)
	return err
}

// ServeCmd builds the site and serves it until interrupted.
type ServeCmd struct {
	Output string `short:"o" help:"Output directory (overrides the config)"`
	Addr   string `short:"a" help:"Listen address (overrides the config)"`
	Watch  bool   `short:"w" help:"Rebuild when content, data or static files change"`
}

func (s *ServeCmd) Run(root *CLI) error {
	app, err := root.app(s.Output)
	if err != nil {
		return err
	}
	defer app.Close()
	if s.Addr != "" {
		app.Config.Addr = s.Addr
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return app.Serve(ctx, s.Watch)
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("route360 %s\n", version)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("route360"),
		kong.Description("A multilingual static blog builder."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&cli); err != nil {
		slog.Error("command failed", "command", ctx.Command(), "err", err)
		os.Exit(1)
	}
}
