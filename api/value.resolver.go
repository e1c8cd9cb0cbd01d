package api

import (
	"fmt"
	"time"

	"portfoliorisk/internal/domain"

	"github.com/gin-gonic/gin"
)

type valueRequest struct {
	Holdings []domain.Holding `json:"holdings"`
	// Date is the valuation date, YYYY-MM-DD. Defaults to today.
	Date string `json:"date"`
}

type valueResponse struct {
	TotalValue float64 `json:"totalValue"`
	Date       string  `json:"date"`
}

func (m ApiHandler) value(c *gin.Context) {
	var requestBody valueRequest

	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	today, err := parseDateOrToday("")
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	asOf, err := parseDateOrToday(requestBody.Date)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid date: %w", err), c, 400)
		return
	}

	result, err := m.Engine.TotalValue(
		requestContext(c),
		domain.Portfolio{Holdings: requestBody.Holdings},
		asOf,
		today,
	)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, valueResponse{
		TotalValue: result.Value.InexactFloat64(),
		Date:       result.Date.Format(time.DateOnly),
	})
}
