package cfg

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, rest, err := Load([]string{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected configuration")
	}
	if len(rest) != 0 {
		t.Errorf("Expected no positional args, got %v", rest)
	}

	if cfg.ChannelsDir != "./channels" {
		t.Errorf("Unexpected channels dir: %q", cfg.ChannelsDir)
	}
	if cfg.WorkerCount != 10 {
		t.Errorf("Unexpected worker count: %d", cfg.WorkerCount)
	}
	if cfg.CronSchedule != "0 9 * * 6" {
		t.Errorf("Unexpected cron schedule: %q", cfg.CronSchedule)
	}
	if cfg.Post || cfg.Serve || cfg.All || cfg.List {
		t.Error("Mode flags should default to false")
	}
}

func TestLoad_ModesAndPositionalArgs(t *testing.T) {
	cfg, rest, err := Load([]string{"--post", "--out", "digest.txt", "hn_en", "hn_ru"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Post {
		t.Error("Expected --post to be set")
	}
	if cfg.OutFile != "digest.txt" {
		t.Errorf("Unexpected out file: %q", cfg.OutFile)
	}
	if len(rest) != 2 || rest[0] != "hn_en" || rest[1] != "hn_ru" {
		t.Errorf("Expected channel ids as positional args, got %v", rest)
	}
}

func TestLoad_SetsGlobal(t *testing.T) {
	cfg, _, err := Load([]string{"--debug"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be set")
	}
	if Get() != cfg {
		t.Error("Get should return the loaded configuration")
	}
}
