package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Houeta/pulsemarket/internal/models"
	"github.com/shopspring/decimal"
)

// RewardClaim is the pair encoded in a reward QR code.
type RewardClaim struct {
	EventID string `json:"eventId" validate:"required"`
	Token   string `json:"token" validate:"required"`
}

type rewardResponse struct {
	Message string          `json:"message"`
	Amount  decimal.Decimal `json:"amount"`
	Error   string          `json:"error"`
}

// ClaimReward redeems a reward code.
func (c *Client) ClaimReward(ctx context.Context, claim RewardClaim) (*models.RewardResult, error) {
	const opn = "api.ClaimReward"

	var resp rewardResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/rewards/claim", body: claim}, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%s: %w", opn, &StatusError{StatusCode: http.StatusOK, Message: resp.Error})
	}

	return &models.RewardResult{Message: resp.Message, Amount: resp.Amount}, nil
}
