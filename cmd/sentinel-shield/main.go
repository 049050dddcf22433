package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nixlim/sentinel-shield/internal/analysis"
	"github.com/nixlim/sentinel-shield/internal/config"
	"github.com/nixlim/sentinel-shield/internal/metrics"
	"github.com/nixlim/sentinel-shield/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file (default ~/.config/sentinel-shield/config.toml)")
	debugFlag := flag.String("debug", "", "Write analysis debug log (JSONL) to the specified file path")
	metricsFlag := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (overrides metrics.addr)")
	tabFlag := flag.String("tab", "", "Tab to open on start (overrides display.start_tab)")
	flag.Parse()

	var (
		loadResult *config.LoadResult
		err        error
	)
	if *configFlag != "" {
		loadResult, err = config.LoadFrom(*configFlag)
	} else {
		loadResult, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "sentinel-shield: config error: %v\n", err)
		os.Exit(1)
	}
	cfg := loadResult.Config

	for _, w := range loadResult.Warnings {
		fmt.Fprintf(os.Stderr, "sentinel-shield: config warning: %s\n", w)
	}

	var opts []tui.ModelOption
	if *tabFlag != "" {
		tab, ok := tui.ParseTab(*tabFlag)
		if !ok {
			fmt.Fprintf(os.Stderr, "sentinel-shield: unknown tab %q (want one of %v)\n", *tabFlag, config.TabNames)
			os.Exit(1)
		}
		opts = append(opts, tui.WithStartTab(tab))
	}
	if *metricsFlag != "" {
		cfg.Metrics.Addr = *metricsFlag
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "sentinel-shield: .env warning: %v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientOpts := []analysis.Option{
		analysis.WithModel(cfg.Analysis.Model),
		analysis.WithTemperature(float32(cfg.Analysis.Temperature)),
	}

	var debugFile *os.File
	if *debugFlag != "" {
		debugFile, err = os.OpenFile(*debugFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sentinel-shield: failed to open debug log %q: %v\n", *debugFlag, err)
			os.Exit(1)
		}
		defer debugFile.Close()
		clientOpts = append(clientOpts, analysis.WithLogger(analysis.NewFileLogger(debugFile)))
	}

	apiKey := cfg.Analysis.APIKey()
	var gen analysis.Generator
	if apiKey != "" {
		g, err := analysis.NewGeminiGenerator(ctx, apiKey, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "sentinel-shield: analysis disabled: %v\n", err)
		} else {
			gen = g
		}
	}
	client := analysis.NewClient(apiKey, gen, clientOpts...)

	log.SetOutput(io.Discard)

	metricsCtx, stopMetrics := context.WithCancel(ctx)
	srv, metricsErr := metrics.StartServer(metricsCtx, cfg.Metrics.Addr)

	shutdownMgr := tui.NewShutdownManager()
	shutdownMgr.CancelRequests = cancel
	shutdownMgr.StopMetrics = func(ctx context.Context) error {
		stopMetrics()
		if srv == nil {
			return nil
		}
		return srv.Shutdown(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	opts = append(opts,
		tui.WithAnalyzer(client),
		tui.WithContext(ctx),
		tui.WithOnShutdown(func() {
			_ = shutdownMgr.Shutdown()
		}),
	)
	model := tui.NewModel(cfg, opts...)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
	)

	go func() {
		select {
		case <-sigCh:
			_ = shutdownMgr.Shutdown()
			p.Quit()
		case err := <-metricsErr:
			_ = shutdownMgr.Shutdown()
			p.Quit()
			fmt.Fprintf(os.Stderr, "sentinel-shield: metrics server: %v\n", err)
		case <-ctx.Done():
			return
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "sentinel-shield: %v\n", err)
		os.Exit(1)
	}
}
