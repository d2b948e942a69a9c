package config

import (
	"bytes"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"timegate/internal/domain"
	"timegate/internal/logging"
)

// File is the on-disk TOML layout.
type File struct {
	Timezone     string       `toml:"timezone"`
	EvictOnClose bool         `toml:"evict_on_close"`
	EvictMessage string       `toml:"evict_message"`
	DenyMessage  string       `toml:"deny_message"`
	Motd         MotdFile     `toml:"motd"`
	Warnings     WarningsFile `toml:"warnings"`
	Schedule     []EntryFile  `toml:"schedule"`
}

// MotdFile holds the per-state message of the day.
type MotdFile struct {
	Open   string `toml:"open"`
	Closed string `toml:"closed"`
}

// WarningsFile configures closure warnings.
type WarningsFile struct {
	Intervals []int  `toml:"intervals"`
	Message   string `toml:"message"`
}

// EntryFile is one timetable entry, e.g. days=["MONDAY"], start="22:00", end="2:00".
type EntryFile struct {
	Days  []string `toml:"days"`
	Start string   `toml:"start"`
	End   string   `toml:"end"`
}

// Config is a validated snapshot ready for the engine.
type Config struct {
	Schedule domain.Schedule
	Messages domain.Messages
}

// DefaultFile returns the configuration written on first start.
func DefaultFile() File {
	return File{
		Timezone:     "",
		EvictOnClose: true,
		EvictMessage: "The server is now closed.",
		DenyMessage:  "The server is currently closed.",
		Motd: MotdFile{
			Open:   "Server is OPEN",
			Closed: "Server is CLOSED",
		},
		Warnings: WarningsFile{
			Intervals: []int{30, 15, 5, 1},
			Message:   "The server closes in {minutes} minutes.",
		},
		Schedule: []EntryFile{
			{Days: []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}, Start: "18:00", End: "23:00"},
			{Days: []string{"SATURDAY", "SUNDAY"}, Start: "10:00", End: "2:00"},
		},
	}
}

// Decode parses TOML bytes on top of the defaults for scalar settings.
// The timetable itself never inherits default entries.
func Decode(data []byte) (File, error) {
	f := DefaultFile()
	f.Schedule = nil
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return File{}, fmt.Errorf("decode config: %w", err)
	}
	return f, nil
}

// Encode renders f as TOML.
func Encode(f File) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Build sanitizes a decoded file into an engine snapshot. Bad entries are
// dropped with a warning rather than failing the whole load.
func Build(f File) Config {
	windows := make([]domain.Window, 0, len(f.Schedule))
	for i, e := range f.Schedule {
		w, err := ParseEntry(e)
		if err != nil {
			logging.Warnf("schedule entry %d skipped: %v", i+1, err)
			continue
		}
		windows = append(windows, w)
	}

	return Config{
		Schedule: domain.Schedule{
			Windows:      windows,
			Warnings:     domain.WarningPolicy{Intervals: SanitizeIntervals(f.Warnings.Intervals), Message: f.Warnings.Message},
			EvictOnClose: f.EvictOnClose,
			Location:     ResolveLocation(f.Timezone),
		},
		Messages: domain.Messages{
			MotdOpen:   f.Motd.Open,
			MotdClosed: f.Motd.Closed,
			Deny:       f.DenyMessage,
			Evict:      f.EvictMessage,
		},
	}
}

// ResolveLocation loads the named zone, falling back to the local zone.
func ResolveLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logging.Warnf("invalid timezone %q, using system default: %v", name, err)
		return time.Local
	}
	return loc
}
