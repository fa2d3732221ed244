package cfg

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version != "" {
		return Version
	}
	return "unknown"
}

type rawCfg struct {
	// Channel configuration
	ChannelsDir string `long:"channels-dir" env:"CHANNELS_DIR" default:"./channels" description:"Directory containing channel configuration files"`

	// Cache configuration
	CacheDir string `long:"cache-dir" env:"CACHE_DIR" default:"./cache" description:"Directory for content and enrichment caches"`

	// External credentials
	GeminiAPIKey     string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key (empty disables enrichment, keyword classifier is used)"`
	TelegramBotToken string `long:"telegram-bot-token" env:"TELEGRAM_BOT_TOKEN" description:"Telegram bot token (required for posting)"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port for --serve mode"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for preview endpoints (optional)"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"10" description:"Number of parallel article content fetchers"`
	CronSchedule string `long:"cron-schedule" env:"CRON_SCHEDULE" default:"0 9 * * 6" description:"Cron expression for digest runs in --serve mode"`

	// Run modes
	Serve   bool   `long:"serve" description:"Start the preview API server and the cron scheduler"`
	Post    bool   `long:"post" description:"Publish generated digests to Telegram"`
	All     bool   `long:"all" description:"Process every configured channel"`
	List    bool   `long:"list" description:"List configured channels and exit"`
	OutFile string `long:"out" description:"Write digest sections to a file instead of stdout"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"HN Digest/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load(args []string) (*Cfg, []string, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil, nil
			}
		}
		return nil, nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		ChannelsDir:      raw.ChannelsDir,
		CacheDir:         raw.CacheDir,
		GeminiAPIKey:     raw.GeminiAPIKey,
		TelegramBotToken: raw.TelegramBotToken,
		Port:             raw.Port,
		APIAccessKey:     raw.APIAccessKey,
		WorkerCount:      raw.WorkerCount,
		CronSchedule:     raw.CronSchedule,
		Serve:            raw.Serve,
		Post:             raw.Post,
		All:              raw.All,
		List:             raw.List,
		OutFile:          raw.OutFile,
		UserAgent:        raw.UserAgent,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, rest, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
