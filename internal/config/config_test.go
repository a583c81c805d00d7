package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ADMIN_CHAT_IDS", "1001, 1002")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Name != "complaint-bot" {
		t.Errorf("app name = %q", cfg.App.Name)
	}
	if len(cfg.Telegram.AdminChatIDs) != 2 || cfg.Telegram.AdminChatIDs[0] != 1001 || cfg.Telegram.AdminChatIDs[1] != 1002 {
		t.Errorf("admin chat ids = %v", cfg.Telegram.AdminChatIDs)
	}
	if cfg.Intake.IdleTimeout() != 30*time.Minute {
		t.Errorf("idle timeout = %v", cfg.Intake.IdleTimeout())
	}
	if cfg.Allocator.Mode != AllocatorModeSerialized {
		t.Errorf("allocator mode = %q", cfg.Allocator.Mode)
	}
	if cfg.Allocator.FallbackCode != "OTH" {
		t.Errorf("fallback code = %q", cfg.Allocator.FallbackCode)
	}
	if cfg.Notify.MaxAttempts != 3 || cfg.Notify.RetryDelay() != 2*time.Second {
		t.Errorf("notify = %+v", cfg.Notify)
	}
	if len(cfg.Intake.SkipTokens) != 2 {
		t.Errorf("skip tokens = %v", cfg.Intake.SkipTokens)
	}
}

func TestLoadDefaultAliases(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for alias, want := range map[string]string{
		"website":    "WEB",
		"web":        "WEB",
		"aplikasi":   "APP",
		"pembayaran": "PAY",
		"lainnya":    "OTH",
		"oth":        "OTH",
	} {
		if got := cfg.Allocator.Aliases[alias]; got != want {
			t.Errorf("alias %q = %q, want %q", alias, got, want)
		}
	}
}

func TestLoadRequiresAdminRecipients(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ADMIN_CHAT_IDS", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when no admin recipients configured")
	}
}

func TestLoadRejectsMalformedChatID(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ADMIN_CHAT_IDS", "1001,not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed chat id")
	}
}

func TestLoadRejectsUnknownAllocatorMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOCATOR_MODE", "sharded")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown allocator mode")
	}
}

func TestParseAliasesCustom(t *testing.T) {
	aliases, err := parseAliases("GME:game,games; SHOP : toko,store")
	if err != nil {
		t.Fatalf("parseAliases: %v", err)
	}
	if aliases["games"] != "GME" {
		t.Errorf("games = %q", aliases["games"])
	}
	if aliases["toko"] != "SHOP" {
		t.Errorf("toko = %q", aliases["toko"])
	}
	if aliases["shop"] != "SHOP" {
		t.Errorf("code should alias itself, got %q", aliases["shop"])
	}

	if _, err := parseAliases("missing-colon"); err == nil {
		t.Fatal("expected error for entry without code")
	}
}
