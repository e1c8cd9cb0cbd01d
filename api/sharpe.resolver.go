package api

import (
	"fmt"

	"portfoliorisk/internal/domain"

	"github.com/gin-gonic/gin"
)

type sharpeRequest struct {
	Holdings []domain.Holding `json:"holdings"`
	// RiskFreeRateAnnual e.g. 0.03; defaults to the server's
	// configured rate.
	RiskFreeRateAnnual *float64 `json:"riskFreeRateAnnual"`
}

type sharpeResponse struct {
	// SharpeRatio is per-day; multiply by sqrt(252) to annualize.
	SharpeRatio       float64 `json:"sharpeRatio"`
	MeanDailyReturn   float64 `json:"meanDailyReturn"`
	StdevDailyReturn  float64 `json:"stdevDailyReturn"`
	DailyRiskFreeRate float64 `json:"dailyRiskFreeRate"`
	Observations      int     `json:"observations"`
}

func (m ApiHandler) sharpe(c *gin.Context) {
	var requestBody sharpeRequest

	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	riskFree := m.DefaultRiskFreeRateAnnual
	if requestBody.RiskFreeRateAnnual != nil {
		riskFree = *requestBody.RiskFreeRateAnnual
	}

	today, err := parseDateOrToday("")
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	result, err := m.Engine.SharpeRatio(
		requestContext(c),
		domain.Portfolio{Holdings: requestBody.Holdings},
		riskFree,
		today,
	)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, sharpeResponse{
		SharpeRatio:       result.SharpeRatio,
		MeanDailyReturn:   result.MeanDailyReturn,
		StdevDailyReturn:  result.StdevDailyReturn,
		DailyRiskFreeRate: result.DailyRiskFreeRate,
		Observations:      result.Observations,
	})
}
