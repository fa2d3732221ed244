package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"hndigest/app/api"
	"hndigest/app/cache"
	"hndigest/app/cfg"
	"hndigest/app/config"
	"hndigest/app/content"
	"hndigest/app/enrich"
	"hndigest/app/hn"
	"hndigest/app/pipeline"
	"hndigest/app/scheduler"
	"hndigest/app/telegram"
)

func main() {
	appCfg, channelIDs, err := cfg.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogging(appCfg.Debug)
	slog.Info("Starting HN Digest", "version", appCfg.Version)

	loader := config.NewLoader(appCfg.ChannelsDir)
	channels, err := loader.LoadAll()
	if err != nil {
		slog.Error("Failed to load channel configurations", "dir", appCfg.ChannelsDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Channel configurations loaded", "count", len(channels))

	if appCfg.List {
		listChannels(channels)
		return
	}

	store, err := cache.NewFileStore(appCfg.CacheDir)
	if err != nil {
		slog.Error("Failed to initialize cache", "dir", appCfg.CacheDir, "error", err)
		os.Exit(1)
	}

	taxonomy, err := loader.LoadTaxonomy()
	if err != nil {
		slog.Error("Failed to load taxonomy", "error", err)
		os.Exit(1)
	}

	var generator enrich.Generator
	if appCfg.GeminiAPIKey != "" {
		generator = enrich.NewGeminiClient(appCfg.GeminiAPIKey, nil)
	} else {
		slog.Warn("GEMINI_API_KEY not set, falling back to keyword classification")
	}

	pipe := pipeline.New(
		hn.NewClient(nil, appCfg.UserAgent),
		content.NewFetcher(nil, store, appCfg.UserAgent, appCfg.WorkerCount),
		enrich.NewEnricher(generator, store, taxonomy),
		taxonomy,
	)

	var publisher *telegram.Publisher
	if appCfg.Post || appCfg.Serve {
		if appCfg.TelegramBotToken == "" {
			if appCfg.Post {
				slog.Error("TELEGRAM_BOT_TOKEN is required for --post")
				os.Exit(1)
			}
			slog.Warn("TELEGRAM_BOT_TOKEN not set, scheduled digests will not be posted")
		} else {
			publisher, err = telegram.NewPublisher(appCfg.TelegramBotToken)
			if err != nil {
				slog.Error("Failed to initialize Telegram publisher", "error", err)
				os.Exit(1)
			}
		}
	}

	if appCfg.Serve {
		serve(appCfg, channels, pipe, publisher)
		return
	}

	selected, err := selectChannels(appCfg, channels, channelIDs)
	if err != nil {
		slog.Error("Channel selection failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var outputs []string
	for _, channel := range selected {
		d, err := pipe.Run(ctx, channel)
		if err != nil {
			slog.Error("Digest generation failed", "channel", channel.ID, "error", err)
			os.Exit(1)
		}

		if publisher != nil && appCfg.Post {
			if err := publisher.PublishThread(channel.Telegram, d); err != nil {
				slog.Error("Digest publishing failed", "channel", channel.ID, "error", err)
				os.Exit(1)
			}
			continue
		}

		for _, msg := range d.Messages {
			outputs = append(outputs, msg.Text)
		}
	}

	if len(outputs) == 0 {
		return
	}

	rendered := strings.Join(outputs, "\n\n---\n\n")
	if appCfg.OutFile != "" {
		if err := os.WriteFile(appCfg.OutFile, []byte(rendered+"\n"), 0o644); err != nil {
			slog.Error("Failed to write output file", "file", appCfg.OutFile, "error", err)
			os.Exit(1)
		}
		slog.Info("Digest written", "file", appCfg.OutFile)
		return
	}
	fmt.Println(rendered)
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func listChannels(channels map[string]*config.Channel) {
	ids := make([]string, 0, len(channels))
	for id := range channels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		ch := channels[id]
		fmt.Printf("%s\t%s\t%s\t%s\n", ch.ID, ch.Language, ch.Telegram, ch.Title)
	}
}

func selectChannels(appCfg *cfg.Cfg, channels map[string]*config.Channel, ids []string) ([]*config.Channel, error) {
	if appCfg.All {
		selected := make([]*config.Channel, 0, len(channels))
		keys := make([]string, 0, len(channels))
		for id := range channels {
			keys = append(keys, id)
		}
		sort.Strings(keys)
		for _, id := range keys {
			selected = append(selected, channels[id])
		}
		return selected, nil
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("no channel specified (pass a channel id or --all)")
	}

	selected := make([]*config.Channel, 0, len(ids))
	for _, id := range ids {
		channel, ok := channels[id]
		if !ok {
			return nil, fmt.Errorf("unknown channel %q", id)
		}
		selected = append(selected, channel)
	}
	return selected, nil
}

// serve runs the preview API plus the cron scheduler until interrupted.
func serve(appCfg *cfg.Cfg, channels map[string]*config.Channel, pipe *pipeline.Pipeline, publisher *telegram.Publisher) {
	run := func(ctx context.Context, channel *config.Channel) error {
		d, err := pipe.Run(ctx, channel)
		if err != nil {
			return err
		}
		if publisher == nil {
			slog.Info("Digest generated (posting disabled)", "channel", channel.ID, "issue", d.Issue, "sections", len(d.Messages)-1)
			return nil
		}
		return publisher.PublishThread(channel.Telegram, d)
	}

	sched := scheduler.New(channels, run)
	if err := sched.Start(appCfg.CronSchedule); err != nil {
		slog.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	handler := api.NewHandler(channels, pipe, appCfg.Version)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // digest preview runs the whole pipeline
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
	slog.Info("Shutdown complete")
}

var _ api.Runner = (*pipeline.Pipeline)(nil)
