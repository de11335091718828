package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nattsrk/AnurVCardPro/internal/backend"
	"github.com/nattsrk/AnurVCardPro/internal/codec"
	"github.com/nattsrk/AnurVCardPro/internal/config"
	"github.com/nattsrk/AnurVCardPro/internal/readlog"
	"github.com/nattsrk/AnurVCardPro/internal/station"
	"github.com/nattsrk/AnurVCardPro/internal/tag"
)

func (s *Server) RegisterRoutes() {
	r := s.router
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Started).String(),
			"server":  s.ID,
			"version": Version,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   s.station != nil,
			"uptime":  time.Since(s.Started).String(),
			"server":  s.ID,
			"version": Version,
		})
	})

	r.POST("/tag/read", s.readTag)
	r.GET("/tag", s.currentTag)
	r.POST("/tag/write", s.writeTag)
	r.GET("/backend", s.fetchBackend)
	r.GET("/sync/compare", s.compare)
	r.POST("/sync/card", s.syncCard)
	r.POST("/sync/backend", s.syncBackend)
	r.GET("/reads", s.reads)
}

func (s *Server) readTag(c *gin.Context) {
	view, err := s.station.ReadCard(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) currentTag(c *gin.Context) {
	view, err := s.station.CardView()
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) writeTag(c *gin.Context) {
	var data config.CardData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := config.ValidateCardData(data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := s.station.WriteCard(c.Request.Context(), data.Contents())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) fetchBackend(c *gin.Context) {
	view, err := s.station.FetchBackend(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) compare(c *gin.Context) {
	report, err := s.station.Compare(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report":     report,
		"mismatches": report.MismatchLines(),
	})
}

func (s *Server) syncCard(c *gin.Context) {
	res, err := s.station.SyncToCard(c.Request.Context())
	if errors.Is(err, station.ErrNothingToSync) {
		c.JSON(http.StatusOK, gin.H{"status": "nothing to sync"})
		return
	}
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "result": res})
}

func (s *Server) syncBackend(c *gin.Context) {
	res, err := s.station.SyncToBackend(c.Request.Context())
	if errors.Is(err, station.ErrNothingToSync) {
		c.JSON(http.StatusOK, gin.H{"status": "nothing to sync"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "result": res})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "result": res})
}

func (s *Server) reads(c *gin.Context) {
	limit := readlog.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	entries, err := s.station.Reads(c.Request.Context(), limit)
	if err != nil {
		abort(c, err)
		return
	}
	if entries == nil {
		entries = []readlog.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"reads": entries})
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	var statusErr *backend.StatusError
	switch {
	case errors.Is(err, codec.ErrCapacityExceeded),
		errors.Is(err, codec.ErrEmpty),
		errors.Is(err, tag.ErrNotWritable):
		return http.StatusConflict
	case errors.Is(err, station.ErrNoCardView),
		errors.Is(err, station.ErrNoBackendView):
		return http.StatusPreconditionFailed
	case errors.Is(err, tag.ErrNotSupported):
		return http.StatusUnprocessableEntity
	case errors.As(err, &statusErr),
		errors.Is(err, backend.ErrUnsuccessful):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
