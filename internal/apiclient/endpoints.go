package apiclient

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

func (c *Client) InitEsewa(ctx context.Context, amount decimal.Decimal) (*PaymentDescriptor, error) {
	var descriptor PaymentDescriptor
	body := map[string]decimal.Decimal{"amount": amount}
	if err := c.do(ctx, http.MethodPost, "/wallet/esewa/init", body, &descriptor); err != nil {
		return nil, err
	}
	return &descriptor, nil
}

// VerifyEsewa forwards the gateway's opaque data payload unchanged.
func (c *Client) VerifyEsewa(ctx context.Context, data string) (*VerifyResult, error) {
	var result VerifyResult
	body := map[string]string{"data": data}
	if err := c.do(ctx, http.MethodPost, "/wallet/esewa/verify", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) WalletBalance(ctx context.Context) (decimal.Decimal, error) {
	var payload struct {
		Balance decimal.Decimal `json:"balance"`
	}
	if err := c.do(ctx, http.MethodGet, "/wallet/balance", nil, &payload); err != nil {
		return decimal.Zero, err
	}
	return payload.Balance, nil
}

func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	sessions := make([]Session, 0)
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) AcceptSession(ctx context.Context, sessionID string) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/sessions/"+pathID(sessionID)+"/accept", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) RejectSession(ctx context.Context, sessionID string) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/sessions/"+pathID(sessionID)+"/reject", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) ReviewSession(ctx context.Context, sessionID string, review Review) error {
	return c.do(ctx, http.MethodPost, "/sessions/"+pathID(sessionID)+"/review", review, nil)
}

func (c *Client) ListPayoutMethods(ctx context.Context) ([]PayoutMethod, error) {
	methods := make([]PayoutMethod, 0)
	if err := c.do(ctx, http.MethodGet, "/payout-methods", nil, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

func (c *Client) AddPayoutMethod(ctx context.Context, method PayoutMethod) (*PayoutMethod, error) {
	var created PayoutMethod
	if err := c.do(ctx, http.MethodPost, "/payout-methods", method, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeletePayoutMethod(ctx context.Context, methodID string) error {
	return c.do(ctx, http.MethodDelete, "/payout-methods/"+pathID(methodID), nil, nil)
}

func (c *Client) RequestWithdrawal(ctx context.Context, amount decimal.Decimal, payoutMethodID string) (*WithdrawalRequest, error) {
	body := struct {
		Amount         decimal.Decimal `json:"amount"`
		PayoutMethodID string          `json:"payoutMethodId"`
	}{Amount: amount, PayoutMethodID: payoutMethodID}

	var request WithdrawalRequest
	if err := c.do(ctx, http.MethodPost, "/withdrawal-requests", body, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodPatch, "/profile", update, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) GetReview(ctx context.Context, reviewID string) (*ProfileReview, error) {
	var review ProfileReview
	if err := c.do(ctx, http.MethodGet, "/profile/reviews/"+pathID(reviewID), nil, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) UpdateReview(ctx context.Context, reviewID string, update ProfileReviewUpdate) (*ProfileReview, error) {
	var review ProfileReview
	if err := c.do(ctx, http.MethodPatch, "/profile/reviews/"+pathID(reviewID), update, &review); err != nil {
		return nil, err
	}
	return &review, nil
}
