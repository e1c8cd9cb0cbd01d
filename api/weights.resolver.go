package api

import (
	"fmt"

	"portfoliorisk/internal/domain"

	"github.com/gin-gonic/gin"
)

type weightsRequest struct {
	Holdings []domain.Holding `json:"holdings"`
}

type positionWeightJson struct {
	Ticker string  `json:"ticker"`
	Weight float64 `json:"weight"`
}

type weightsResponse struct {
	// Lots, in portfolio order; duplicate tickers stay separate.
	Lots []positionWeightJson `json:"lots"`
	// ByTicker collapses lots of the same ticker.
	ByTicker map[string]float64 `json:"byTicker"`
}

func (m ApiHandler) weights(c *gin.Context) {
	var requestBody weightsRequest

	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	today, err := parseDateOrToday("")
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	weights, err := m.Engine.Weights(
		requestContext(c),
		domain.Portfolio{Holdings: requestBody.Holdings},
		today,
	)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := weightsResponse{
		Lots:     []positionWeightJson{},
		ByTicker: weights.ByTicker(),
	}
	for _, w := range weights {
		out.Lots = append(out.Lots, positionWeightJson{Ticker: w.Ticker, Weight: w.Weight})
	}

	c.JSON(200, out)
}
