package services

import (
	"context"
	"strings"

	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/shopspring/decimal"
)

type PayoutGateway interface {
	ListPayoutMethods(ctx context.Context) ([]apiclient.PayoutMethod, error)
	AddPayoutMethod(ctx context.Context, method apiclient.PayoutMethod) (*apiclient.PayoutMethod, error)
	DeletePayoutMethod(ctx context.Context, methodID string) error
	RequestWithdrawal(ctx context.Context, amount decimal.Decimal, payoutMethodID string) (*apiclient.WithdrawalRequest, error)
	WalletBalance(ctx context.Context) (decimal.Decimal, error)
}

var allowedPayoutTypes = map[string]struct{}{
	"bank":   {},
	"esewa":  {},
	"khalti": {},
}

type PayoutService struct{}

func NewPayoutService() *PayoutService {
	return &PayoutService{}
}

func (s *PayoutService) ListMethods(ctx context.Context, client PayoutGateway) ([]apiclient.PayoutMethod, error) {
	return client.ListPayoutMethods(ctx)
}

func (s *PayoutService) AddMethod(ctx context.Context, client PayoutGateway, method apiclient.PayoutMethod) (*apiclient.PayoutMethod, error) {
	method.Type = strings.ToLower(strings.TrimSpace(method.Type))
	method.AccountName = strings.TrimSpace(method.AccountName)
	method.AccountNumber = strings.TrimSpace(method.AccountNumber)
	method.Provider = strings.TrimSpace(method.Provider)

	if _, ok := allowedPayoutTypes[method.Type]; !ok {
		return nil, invalid("type must be one of bank, esewa, khalti")
	}
	if method.AccountName == "" {
		return nil, invalid("account_name is required")
	}
	if method.AccountNumber == "" {
		return nil, invalid("account_number is required")
	}
	if method.Type == "bank" && method.Provider == "" {
		return nil, invalid("provider is required for bank accounts")
	}
	return client.AddPayoutMethod(ctx, method)
}

func (s *PayoutService) DeleteMethod(ctx context.Context, client PayoutGateway, methodID string) error {
	if strings.TrimSpace(methodID) == "" {
		return invalid("payout method id is required")
	}
	return client.DeletePayoutMethod(ctx, methodID)
}

// RequestWithdrawal checks the amount against the current balance before
// asking the API; the API still decides whether the request is accepted.
func (s *PayoutService) RequestWithdrawal(
	ctx context.Context,
	client PayoutGateway,
	amount decimal.Decimal,
	payoutMethodID string,
) (*apiclient.WithdrawalRequest, error) {
	if !amount.IsPositive() {
		return nil, invalid("amount must be greater than 0")
	}
	if strings.TrimSpace(payoutMethodID) == "" {
		return nil, invalid("payout_method_id is required")
	}

	balance, err := client.WalletBalance(ctx)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(balance) {
		return nil, invalid("amount exceeds available balance")
	}
	return client.RequestWithdrawal(ctx, amount, payoutMethodID)
}
