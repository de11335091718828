package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nattsrk/AnurVCardPro/internal/backend"
	"github.com/nattsrk/AnurVCardPro/internal/station"
	"github.com/nattsrk/AnurVCardPro/internal/tag"
)

// stationConfig is everything one cardctl process needs.
type stationConfig struct {
	Addr        string
	CORSOrigins []string
	LogLevel    string

	Station station.Config

	TagPath     string
	TagID       string
	TagCapacity int
	TagImage    tag.Image

	Backend backend.ClientConfig

	RedisAddr string
	RedisTTL  time.Duration

	ReadLogPath string
}

func defaultStationConfig() stationConfig {
	return stationConfig{
		Addr:        ":8080",
		LogLevel:    "info",
		Station:     station.DefaultConfig(),
		TagPath:     "local/card.ndef",
		TagCapacity: tag.DefaultCapacity,
		TagImage:    tag.ImageRaw,
		Backend:     backend.DefaultClientConfig(),
		RedisTTL:    5 * time.Minute,
		ReadLogPath: "local/reads.db",
	}
}

type fileConfig struct {
	Addr             string   `toml:"addr"`
	CORSOrigins      []string `toml:"cors_origins"`
	LogLevel         string   `toml:"log_level"`
	UserID           int64    `toml:"user_id"`
	DisplayName      string   `toml:"display_name"`
	ProfileBaseURL   string   `toml:"profile_base_url"`
	TagPath          string   `toml:"tag_path"`
	TagID            string   `toml:"tag_id"`
	TagCapacity      int      `toml:"tag_capacity"`
	TagImage         string   `toml:"tag_image"`
	BackendURL       string   `toml:"backend_url"`
	BackendTimeoutMS int64    `toml:"backend_timeout_ms"`
	BackendRetries   int      `toml:"backend_retries"`
	RedisAddr        string   `toml:"redis_addr"`
	RedisTTLSeconds  int64    `toml:"redis_ttl_seconds"`
	ReadLogPath      string   `toml:"readlog_path"`
}

func loadStationConfig(path string) (stationConfig, error) {
	cfg := defaultStationConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return stationConfig{}, fmt.Errorf("load station config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return stationConfig{}, fmt.Errorf("load station config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CORSOrigins = normalizeList(raw.CORSOrigins)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("user_id") {
		cfg.Station.UserID = raw.UserID
	}
	if meta.IsDefined("display_name") {
		cfg.Station.DisplayName = strings.TrimSpace(raw.DisplayName)
	}
	if meta.IsDefined("profile_base_url") {
		cfg.Station.ProfileBaseURL = strings.TrimSpace(raw.ProfileBaseURL)
	}
	if meta.IsDefined("tag_path") {
		cfg.TagPath = strings.TrimSpace(raw.TagPath)
	}
	if meta.IsDefined("tag_id") {
		cfg.TagID = strings.TrimSpace(raw.TagID)
	}
	if meta.IsDefined("tag_capacity") {
		cfg.TagCapacity = raw.TagCapacity
	}
	if meta.IsDefined("tag_image") {
		img, err := tag.ParseImage(raw.TagImage)
		if err != nil {
			return stationConfig{}, fmt.Errorf("load station config: %w", err)
		}
		cfg.TagImage = img
	}
	if meta.IsDefined("backend_url") {
		cfg.Backend.BaseURL = strings.TrimSpace(raw.BackendURL)
	}
	if meta.IsDefined("backend_timeout_ms") {
		cfg.Backend.Timeout = time.Duration(raw.BackendTimeoutMS) * time.Millisecond
	}
	if meta.IsDefined("backend_retries") {
		cfg.Backend.RetryCount = raw.BackendRetries
	}
	if meta.IsDefined("redis_addr") {
		cfg.RedisAddr = strings.TrimSpace(raw.RedisAddr)
	}
	if meta.IsDefined("redis_ttl_seconds") {
		cfg.RedisTTL = time.Duration(raw.RedisTTLSeconds) * time.Second
	}
	if meta.IsDefined("readlog_path") {
		cfg.ReadLogPath = strings.TrimSpace(raw.ReadLogPath)
	}

	if err := cfg.Validate(); err != nil {
		return stationConfig{}, fmt.Errorf("load station config: %w", err)
	}
	return cfg, nil
}

func (c stationConfig) Validate() error {
	var errs []error
	if c.Station.UserID <= 0 {
		errs = append(errs, fmt.Errorf("user_id must be positive"))
	}
	if c.TagPath == "" {
		errs = append(errs, fmt.Errorf("tag_path is required"))
	}
	if c.TagCapacity < 0 {
		errs = append(errs, fmt.Errorf("tag_capacity must not be negative"))
	}
	if c.Backend.BaseURL == "" {
		errs = append(errs, fmt.Errorf("backend_url is required"))
	}
	if c.Backend.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("backend_timeout_ms must be positive"))
	}
	if c.Backend.RetryCount < 0 {
		errs = append(errs, fmt.Errorf("backend_retries must not be negative"))
	}
	if c.RedisTTL < 0 {
		errs = append(errs, fmt.Errorf("redis_ttl_seconds must not be negative"))
	}
	return errors.Join(errs...)
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
