package config

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
)

const sampleTOML = `
timezone = "Asia/Tokyo"
evict_on_close = false
deny_message = "Closed, come back at 18:00."

[motd]
open = "Welcome"

[warnings]
intervals = [10, 2]
message = "{minutes} min left"

[[schedule]]
days = ["MONDAY", "TUESDAY"]
start = "22:00"
end = "2:00"

[[schedule]]
days = []
start = "10:00"
end = "12:00"

[[schedule]]
days = ["SATURDAY"]
start = "9:00"
end = "17:00"
`

func TestDecodeAndBuild(t *testing.T) {
	f, err := Decode([]byte(sampleTOML))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f.EvictOnClose {
		t.Error("evict_on_close should be false")
	}
	// Unset keys keep their defaults.
	if f.Motd.Closed != DefaultFile().Motd.Closed {
		t.Errorf("motd.closed = %q, want default", f.Motd.Closed)
	}
	if f.EvictMessage != DefaultFile().EvictMessage {
		t.Errorf("evict_message = %q, want default", f.EvictMessage)
	}
	if len(f.Schedule) != 3 {
		t.Fatalf("schedule entries = %d, want 3", len(f.Schedule))
	}

	cfg := Build(f)
	if n := len(cfg.Schedule.Windows); n != 2 {
		t.Fatalf("windows = %d, want 2 (empty-days entry skipped)", n)
	}
	if w := cfg.Schedule.Windows[0]; w.StartMinutes != 1320 || w.EndMinutes != 1560 {
		t.Errorf("first window = %v", w)
	}
	if got := cfg.Schedule.Location.String(); got != "Asia/Tokyo" {
		t.Errorf("location = %q", got)
	}
	if got := cfg.Schedule.Warnings.Intervals; len(got) != 2 || got[0] != 10 || got[1] != 2 {
		t.Errorf("intervals = %v", got)
	}
	if got := cfg.Schedule.Warnings.Format(2); got != "2 min left" {
		t.Errorf("warning message = %q", got)
	}
	if cfg.Messages.Deny != "Closed, come back at 18:00." || cfg.Messages.MotdOpen != "Welcome" {
		t.Errorf("messages = %+v", cfg.Messages)
	}
}

func TestDecode_NoScheduleMeansNoWindows(t *testing.T) {
	f, err := Decode([]byte(`timezone = "UTC"`))
	if err != nil {
		t.Fatal(err)
	}
	if len(Build(f).Schedule.Windows) != 0 {
		t.Error("missing schedule must not inherit default entries")
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := Decode([]byte("schedule = [[[")); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestEncodeDefaults(t *testing.T) {
	data, err := Encode(DefaultFile())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[[schedule]]") {
		t.Errorf("encoded defaults lack schedule tables:\n%s", data)
	}
	f, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	cfg := Build(f)
	if len(cfg.Schedule.Windows) != 2 {
		t.Fatalf("default windows = %d, want 2", len(cfg.Schedule.Windows))
	}
	weekend := cfg.Schedule.Windows[1]
	if !weekend.Wraps() || !weekend.Days.Has(time.Sunday) {
		t.Errorf("weekend window = %v, want Sat,Sun wrapping", weekend)
	}
}

func TestResolveLocation(t *testing.T) {
	if ResolveLocation("") != time.Local {
		t.Error("empty zone should be Local")
	}
	if ResolveLocation("Not/AZone") != time.Local {
		t.Error("invalid zone should fall back to Local")
	}
	if got := ResolveLocation("Europe/Berlin").String(); got != "Europe/Berlin" {
		t.Errorf("ResolveLocation = %q", got)
	}
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("TIMEGATE_CONFIG", "/tmp/tg.toml")
	t.Setenv("TIMEGATE_ADDR", ":9000")
	t.Setenv("TIMEGATE_NATS_URL", "nats://127.0.0.1:4222")
	t.Setenv("TIMEGATE_CHECK_INTERVAL", "15s")

	s, err := LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.ConfigPath != "/tmp/tg.toml" || s.Addr != ":9000" || s.NATSURL != "nats://127.0.0.1:4222" {
		t.Errorf("settings = %+v", s)
	}
	if s.NATSPrefix != "timegate" {
		t.Errorf("nats prefix = %q, want default", s.NATSPrefix)
	}
	if s.CheckInterval != 15*time.Second {
		t.Errorf("check interval = %s", s.CheckInterval)
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("TIMEGATE_CONFIG", "")

	s, err := LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.ConfigPath == "" {
		t.Error("config path should fall back to the default location")
	}
	if s.CheckInterval != 60*time.Second {
		t.Errorf("check interval = %s, want 60s", s.CheckInterval)
	}
}

func TestLoadSettings_RejectsBadInterval(t *testing.T) {
	for _, v := range []string{"0s", "-5s", "soon"} {
		t.Setenv("TIMEGATE_CHECK_INTERVAL", v)
		if _, err := LoadSettings(); err == nil {
			t.Errorf("TIMEGATE_CHECK_INTERVAL=%q should be rejected", v)
		}
	}
}
