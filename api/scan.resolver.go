package api

import (
	"fmt"

	"portfoliorisk/internal/domain"

	"github.com/gin-gonic/gin"
)

type scanRequest struct {
	Holdings []domain.Holding `json:"holdings"`
}

func (m ApiHandler) scan(c *gin.Context) {
	var requestBody scanRequest

	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	today, err := parseDateOrToday("")
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	report := m.Engine.Scan(
		requestContext(c),
		domain.Portfolio{Holdings: requestBody.Holdings},
		today,
	)

	c.JSON(200, report)
}
