package main

import (
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/nattsrk/AnurVCardPro/internal/backend"
	"github.com/nattsrk/AnurVCardPro/internal/logging"
	"github.com/nattsrk/AnurVCardPro/internal/readlog"
	"github.com/nattsrk/AnurVCardPro/internal/station"
	"github.com/nattsrk/AnurVCardPro/internal/tag"
)

// runtime owns the resources behind one station.
type runtime struct {
	station *station.Station
	tag     *tag.FileTransport
	reads   *readlog.Store
	redis   *redis.Client
}

func openRuntime(cfg stationConfig, withReadLog bool) (*runtime, error) {
	logger := logging.Component("cardctl")
	rt := &runtime{
		tag: tag.NewFileTransport(cfg.TagPath, cfg.TagID, cfg.TagCapacity).WithImage(cfg.TagImage),
	}

	var svc backend.Service = backend.NewClient(cfg.Backend, logger)
	if cfg.RedisAddr != "" {
		rt.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		svc = backend.NewCachedClient(svc, backend.NewRedisKVStore(rt.redis), cfg.RedisTTL, logger)
	}

	opts := []station.Option{station.WithLogger(logger)}
	if withReadLog && cfg.ReadLogPath != "" {
		store, err := readlog.Open(cfg.ReadLogPath)
		if err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("open read log: %w", err)
		}
		rt.reads = store
		opts = append(opts, station.WithReadLog(store))
	}
	rt.station = station.New(cfg.Station, rt.tag, svc, opts...)
	logRuntime(logger, cfg)
	return rt, nil
}

func logRuntime(logger zerolog.Logger, cfg stationConfig) {
	logger.Debug().
		Str("tag", cfg.TagPath).
		Int("capacity", cfg.TagCapacity).
		Str("image", string(cfg.TagImage)).
		Str("backend", cfg.Backend.BaseURL).
		Bool("cache", cfg.RedisAddr != "").
		Int64("user_id", cfg.Station.UserID).
		Msg("station runtime ready")
}

func (r *runtime) Close() error {
	var errs []error
	if r.tag != nil {
		if err := r.tag.Close(); err != nil && !errors.Is(err, tag.ErrAlreadyClosed) {
			errs = append(errs, err)
		}
	}
	if r.reads != nil {
		errs = append(errs, r.reads.Close())
	}
	if r.redis != nil {
		errs = append(errs, r.redis.Close())
	}
	return errors.Join(errs...)
}
