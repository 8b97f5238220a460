// Package payment relays the eSewa redirect handshake between a console user,
// the marketplace API and the gateway. The console never holds the merchant
// secret: the API signs the form fields and later decides whether the
// gateway's return payload is genuine.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/saeid-a/TheraConsole/internal/apiclient"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidAmount     = errors.New("amount must be greater than 0")
	ErrInvalidDescriptor = errors.New("payment descriptor is incomplete")
)

const (
	MessageMissingData    = "Missing verification data"
	MessageVerifyFailed   = "Payment verification failed"
	MessageGatewayFailure = "Payment was cancelled or failed"
	MessageVerified       = "Payment verified. Your wallet has been updated."
)

type State string

const (
	StateVerified State = "verified"
	StateFailed   State = "failed"
)

// Gateway is the slice of the API client the handshake needs.
type Gateway interface {
	InitEsewa(ctx context.Context, amount decimal.Decimal) (*apiclient.PaymentDescriptor, error)
	VerifyEsewa(ctx context.Context, data string) (*apiclient.VerifyResult, error)
}

type EventKind string

const (
	EventInitiated EventKind = "initiated"
	EventVerified  EventKind = "verified"
	EventFailed    EventKind = "failed"
)

type Event struct {
	UserID  string
	Kind    EventKind
	Amount  *decimal.Decimal
	Balance *decimal.Decimal
	Message string
}

type EventRecorder interface {
	Record(ctx context.Context, event Event) error
}

type Notifier interface {
	Notify(userID, kind, content string)
}

type Descriptor struct {
	ActionURL string               `json:"action_url"`
	Params    apiclient.FormParams `json:"params"`
}

// Outcome is terminal for the attempt. A failed outcome is never retried;
// the user starts over with a new Initiate.
type Outcome struct {
	State         State            `json:"state"`
	Message       string           `json:"message"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	RedirectURL   string           `json:"redirect_url,omitempty"`
	RedirectDelay time.Duration    `json:"-"`
}

// MarshalJSON adds the redirect delay in milliseconds so API clients can
// wait as long as the HTML page does.
func (o Outcome) MarshalJSON() ([]byte, error) {
	type plain Outcome
	payload := struct {
		plain
		RedirectDelayMS int64 `json:"redirect_delay_ms,omitempty"`
	}{plain: plain(o)}
	if o.RedirectURL != "" {
		payload.RedirectDelayMS = o.RedirectDelay.Milliseconds()
	}
	return json.Marshal(payload)
}

type Options struct {
	RedirectDelay           time.Duration
	AllowedRedirectPrefixes []string
}

type Relay struct {
	recorder EventRecorder
	notifier Notifier
	logger   *zap.Logger
	options  Options
}

func NewRelay(recorder EventRecorder, notifier Notifier, logger *zap.Logger, options Options) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		recorder: recorder,
		notifier: notifier,
		logger:   logger,
		options:  options,
	}
}

// Initiate asks the API for a signed descriptor. Non-positive amounts are
// rejected before any request is made.
func (r *Relay) Initiate(ctx context.Context, gw Gateway, userID string, amount decimal.Decimal) (*Descriptor, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	descriptor, err := gw.InitEsewa(ctx, amount)
	if err != nil {
		r.logger.Warn("esewa init failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if err := validateDescriptor(descriptor); err != nil {
		r.logger.Error("esewa init returned unusable descriptor", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	r.record(ctx, Event{UserID: userID, Kind: EventInitiated, Amount: &amount})
	r.logger.Info("esewa payment initiated",
		zap.String("user_id", userID),
		zap.String("amount", amount.StringFixed(2)),
	)
	return &Descriptor{ActionURL: descriptor.ActionURL, Params: descriptor.Params}, nil
}

// OnReturn handles the gateway's success redirect. The payload is forwarded
// verbatim; the API alone decides whether it is genuine.
func (r *Relay) OnReturn(ctx context.Context, gw Gateway, userID, payload, redirect string) Outcome {
	if strings.TrimSpace(payload) == "" {
		outcome := Outcome{State: StateFailed, Message: MessageMissingData}
		r.finish(ctx, userID, outcome)
		return outcome
	}

	result, err := gw.VerifyEsewa(ctx, payload)
	if err != nil {
		outcome := Outcome{State: StateFailed, Message: apiclient.ErrorMessage(err, MessageVerifyFailed)}
		r.logger.Warn("esewa verification rejected", zap.String("user_id", userID), zap.Error(err))
		r.finish(ctx, userID, outcome)
		return outcome
	}
	if !result.Verified() {
		message := result.Message
		if strings.TrimSpace(message) == "" {
			message = MessageVerifyFailed
		}
		outcome := Outcome{State: StateFailed, Message: message}
		r.finish(ctx, userID, outcome)
		return outcome
	}

	outcome := Outcome{State: StateVerified, Message: MessageVerified, Balance: result.Balance}
	if strings.TrimSpace(result.Message) != "" {
		outcome.Message = result.Message
	}
	if target, ok := r.acceptRedirect(redirect); ok {
		outcome.RedirectURL = target
		outcome.RedirectDelay = r.options.RedirectDelay
	}
	r.finish(ctx, userID, outcome)
	return outcome
}

// OnFailure handles the gateway's failure redirect.
func (r *Relay) OnFailure(ctx context.Context, userID string) Outcome {
	outcome := Outcome{State: StateFailed, Message: MessageGatewayFailure}
	r.finish(ctx, userID, outcome)
	return outcome
}

func (r *Relay) finish(ctx context.Context, userID string, outcome Outcome) {
	kind := EventFailed
	if outcome.State == StateVerified {
		kind = EventVerified
	}
	r.record(ctx, Event{UserID: userID, Kind: kind, Balance: outcome.Balance, Message: outcome.Message})

	if r.notifier != nil {
		if outcome.State == StateVerified {
			r.notifier.Notify(userID, "wallet.updated", outcome.Message)
		} else {
			r.notifier.Notify(userID, "payment.failed", outcome.Message)
		}
	}
	r.logger.Info("esewa payment finished",
		zap.String("user_id", userID),
		zap.String("state", string(outcome.State)),
		zap.String("message", outcome.Message),
	)
}

func (r *Relay) record(ctx context.Context, event Event) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Record(ctx, event); err != nil {
		r.logger.Error("record payment event", zap.String("kind", string(event.Kind)), zap.Error(err))
	}
}

// acceptRedirect only lets through links under a configured prefix. Scheme
// and host must match exactly and the path must sit under the prefix path on
// a segment boundary. A prefix without a host (theralink://) admits any link
// of that scheme.
func (r *Relay) acceptRedirect(redirect string) (string, bool) {
	target := strings.TrimSpace(redirect)
	if target == "" {
		return "", false
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme == "" || parsed.User != nil {
		r.logger.Warn("dropping malformed redirect", zap.String("redirect", target))
		return "", false
	}
	for _, prefix := range r.options.AllowedRedirectPrefixes {
		if underPrefix(parsed, prefix) {
			return target, true
		}
	}
	r.logger.Warn("dropping redirect outside allowed prefixes", zap.String("redirect", target))
	return "", false
}

func underPrefix(target *url.URL, prefix string) bool {
	allowed, err := url.Parse(strings.TrimSpace(prefix))
	if err != nil || allowed.Scheme == "" {
		return false
	}
	if !strings.EqualFold(target.Scheme, allowed.Scheme) {
		return false
	}
	if allowed.Host == "" {
		return true
	}
	if !strings.EqualFold(target.Host, allowed.Host) {
		return false
	}

	base := allowed.EscapedPath()
	path := target.EscapedPath()
	if base == "" || strings.HasSuffix(base, "/") {
		return strings.HasPrefix(path, base)
	}
	return path == base || strings.HasPrefix(path, base+"/")
}

func validateDescriptor(descriptor *apiclient.PaymentDescriptor) error {
	if descriptor == nil || len(descriptor.Params) == 0 {
		return ErrInvalidDescriptor
	}
	parsed, err := url.Parse(descriptor.ActionURL)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "https" && parsed.Scheme != "http") {
		return ErrInvalidDescriptor
	}
	return nil
}
