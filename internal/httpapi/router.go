// Package httpapi exposes the forecasts over HTTP with gin.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"mc-forecast/internal/forecast"
	"mc-forecast/internal/metrics"
	"mc-forecast/internal/report"
	"mc-forecast/internal/simulation"
)

// HowManyBody is the JSON body of POST /v1/forecasts/how-many.
type HowManyBody struct {
	Throughput  []int    `json:"throughput"`
	TargetDate  string   `json:"target_date"`
	StartDate   string   `json:"start_date"`
	Confidence  *float64 `json:"confidence"`
	Simulations *int     `json:"simulations"`
	Seed        *int64   `json:"seed"`
}

// WhenBody is the JSON body of POST /v1/forecasts/when.
type WhenBody struct {
	Throughput  []int    `json:"throughput"`
	Items       int      `json:"items"`
	StartDate   string   `json:"start_date"`
	Confidence  *float64 `json:"confidence"`
	Simulations *int     `json:"simulations"`
	Seed        *int64   `json:"seed"`
}

// BacktestBody is the JSON body of POST /v1/backtests.
type BacktestBody struct {
	Throughput  []int  `json:"throughput"`
	Mode        string `json:"mode"`
	HorizonDays int    `json:"horizon_days"`
	Items       int    `json:"items"`
	Step        int    `json:"step"`
	Lookback    int    `json:"lookback"`
	Simulations *int   `json:"simulations"`
	Seed        *int64 `json:"seed"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error      string `json:"error"`
	Field      string `json:"field,omitempty"`
	Constraint string `json:"constraint,omitempty"`
}

// NewRouter builds the gin engine. rec may be nil, in which case /metrics is
// not mounted.
func NewRouter(svc *forecast.Service, rec *metrics.Recorder) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if rec != nil {
		router.GET("/metrics", gin.WrapH(rec.Handler()))
	}

	v1 := router.Group("/v1/forecasts")
	v1.POST("/how-many", func(c *gin.Context) {
		var body HowManyBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body: " + err.Error()})
			return
		}
		r, err := svc.HowMany(forecast.HowManyRequest{
			Throughput:  body.Throughput,
			TargetDate:  body.TargetDate,
			StartDate:   body.StartDate,
			Confidence:  body.Confidence,
			Simulations: body.Simulations,
			Seed:        body.Seed,
		})
		respond(c, r, err)
	})
	v1.POST("/when", func(c *gin.Context) {
		var body WhenBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body: " + err.Error()})
			return
		}
		r, err := svc.When(forecast.WhenRequest{
			Throughput:  body.Throughput,
			Items:       body.Items,
			StartDate:   body.StartDate,
			Confidence:  body.Confidence,
			Simulations: body.Simulations,
			Seed:        body.Seed,
		})
		respond(c, r, err)
	})

	router.POST("/v1/backtests", func(c *gin.Context) {
		var body BacktestBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body: " + err.Error()})
			return
		}
		res, err := svc.Backtest(forecast.BacktestRequest(body))
		if err != nil {
			status, resp := errorResponse(err)
			c.JSON(status, resp)
			return
		}
		c.JSON(http.StatusOK, res)
	})

	return router
}

func respond(c *gin.Context, r *simulation.Report, err error) {
	if err == nil {
		c.JSON(http.StatusOK, report.NewDocument(r))
		return
	}

	status, body := errorResponse(err)
	c.JSON(status, body)
}

// errorResponse maps the forecast error taxonomy onto HTTP statuses.
func errorResponse(err error) (int, ErrorResponse) {
	var ve *simulation.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrorResponse{
			Error:      err.Error(),
			Field:      ve.Field,
			Constraint: ve.Constraint,
		}
	case errors.Is(err, simulation.ErrNonTerminating):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: err.Error()}
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Msg("HTTP request")
	}
}
