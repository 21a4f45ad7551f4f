// Package server exposes the prediction pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"TickerCast/internal/calculator"
	"TickerCast/internal/chart"
	"TickerCast/internal/collector"
	"TickerCast/internal/model"
	"TickerCast/internal/recorder"
)

const requestIDHeader = "X-Request-ID"

// Predictor runs the prediction pipeline for one ticker.
type Predictor interface {
	Predict(ctx context.Context, ticker string) (*model.Prediction, error)
}

// Server holds the HTTP handlers' dependencies.
type Server struct {
	predictor Predictor
	journal   recorder.Recorder
}

type predictRequest struct {
	Ticker string `form:"ticker" json:"ticker"`
}

type journalEntry struct {
	ID         string    `json:"request_id"`
	Ticker     string    `json:"ticker"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	RateSource string    `json:"rate_source,omitempty"`
	Points     int       `json:"points"`
	DurationMS int64     `json:"duration_ms"`
	Channel    string    `json:"channel"`
	CreatedAt  time.Time `json:"created_at"`
}

// New builds the gin engine with all routes registered.
func New(p Predictor, rec recorder.Recorder) *gin.Engine {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	s := &Server{predictor: p, journal: rec}

	router := gin.Default()
	router.Use(requestID())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "tickercast"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/predict", s.handlePredict)
	router.GET("/requests", s.handleRequests)
	return router
}

// requestID tags every request with an X-Request-ID, reusing the caller's
// header when present.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set("request_id", id)
		c.Next()
	}
}

func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.Ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker is required"})
		return
	}

	ctx := collector.WithRequestID(c.Request.Context(), c.GetString("request_id"))
	ctx = collector.WithChannel(ctx, collector.ChannelHTTP)

	pred, err := s.predictor.Predict(ctx, req.Ticker)
	if err != nil {
		status, body := errorResponse(err)
		c.JSON(status, body)
		return
	}

	plot, err := chart.Render(pred)
	if err != nil {
		log.Printf("[ERROR] [%s] render chart: %v", pred.RequestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render chart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"plot":   plot,
		"data":   pred.Snapshot,
	})
}

// errorResponse maps a pipeline error to its HTTP status and body.
func errorResponse(err error) (int, gin.H) {
	switch {
	case errors.Is(err, collector.ErrInvalidTicker):
		return http.StatusBadRequest, gin.H{"error": "Invalid ticker", "details": err.Error()}
	case errors.Is(err, calculator.ErrEmptySeries):
		return http.StatusNotFound, gin.H{"error": collector.NoDataMessage}
	default:
		return http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Prediction failed: %s", collector.UserMessage(err))}
	}
}

func (s *Server) handleRequests(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = n
	}

	reqs, err := s.journal.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Query failed", "details": err.Error()})
		return
	}

	out := make([]journalEntry, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, journalEntry{
			ID:         r.ID,
			Ticker:     r.Ticker,
			Status:     r.Status,
			Error:      r.Error,
			RateSource: r.RateSource,
			Points:     r.Points,
			DurationMS: r.Duration.Milliseconds(),
			Channel:    r.Channel,
			CreatedAt:  r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"requests": out, "count": len(out)})
}
