package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfoliorisk/internal/app"
	"portfoliorisk/internal/domain"
	"portfoliorisk/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApiHandler struct {
	Engine *app.Engine
	// DefaultRiskFreeRateAnnual is used when a sharpe request does not
	// carry its own rate.
	DefaultRiskFreeRateAnnual float64
}

func (m ApiHandler) StartApi(port int) error {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(requestContextMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to portfoliorisk"})
	})
	router.POST("/value", m.value)
	router.POST("/sharpe", m.sharpe)
	router.POST("/weights", m.weights)
	router.POST("/scan", m.scan)

	return router.Run(fmt.Sprintf(":%d", port))
}

// requestContextMiddleware tags every request with an id and stashes
// a logger in the request context for the layers below.
func requestContextMiddleware(c *gin.Context) {
	requestID := uuid.NewString()
	log := logger.New().With("requestID", requestID)
	c.Header("X-Request-Id", requestID)
	c.Set(logger.ContextKey, log)

	log.Infow("handling request",
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)

	c.Next()
}

func requestContext(c *gin.Context) context.Context {
	if log, ok := c.Get(logger.ContextKey); ok {
		return context.WithValue(c.Request.Context(), logger.ContextKey, log)
	}
	return c.Request.Context()
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, statusCodeForError(err))
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(requestContext(c)).Error(err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// statusCodeForError maps the engine's typed failures onto http
// codes: caller mistakes are 4xx, provider outages 502, everything
// else 500.
func statusCodeForError(err error) int {
	var (
		unknownTicker    domain.UnknownTickerError
		noPriceData      domain.NoPriceDataError
		futureDate       domain.FutureDateError
		degenerate       domain.DegenerateSeriesError
		insufficientData domain.InsufficientDataError
		weightErr        domain.WeightComputationError
		unavailable      domain.DataUnavailableError
	)
	switch {
	case errors.As(err, &unavailable):
		return 502
	case errors.As(err, &unknownTicker):
		return 404
	case errors.As(err, &futureDate),
		errors.As(err, &noPriceData),
		errors.As(err, &degenerate),
		errors.As(err, &insufficientData),
		errors.As(err, &weightErr):
		return 400
	}
	return 500
}

// today is resolved once per request at this boundary; the engine
// itself never reads the clock.
func parseDateOrToday(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(time.DateOnly, s)
}
