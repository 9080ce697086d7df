package pubsubauth

import (
	"context"
	"errors"
	"time"

	"github.com/dantte-lp/pubsubwire/internal/pubsubauth/replay"
)

// Outcome is the four-way result of an Is<Op>Allowed call (spec §4.7, §7).
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeUnauthorized Outcome = "unauthorized"
	OutcomeForbidden    Outcome = "forbidden"
	OutcomeUnavailable  Outcome = "unavailable"
)

// ErrUnavailable is the sentinel for a replay store failure (spec §4.7).
// Is<Op>Allowed reports such a failure as OutcomeUnavailable and does not
// return or wrap this error.
var ErrUnavailable = errors.New("pubsubauth: replay store unavailable")

// MetricsRecorder receives one count per Is<Op>Allowed call. Authenticator
// never requires one: Metrics is left nil in NewAuthenticator and verify
// only calls it when set.
type MetricsRecorder interface {
	IncAuthOutcome(operation, outcome string)
	IncReplayConflict(operation string)
}

// Authenticator signs and verifies every operation in §4.4's table against
// one shared secret and one replay store. Now is overridable for
// deterministic tests; it defaults to time.Now. Metrics is optional.
type Authenticator struct {
	Secret        []byte
	TokenLifetime time.Duration
	Store         replay.Store
	Now           func() time.Time
	Metrics       MetricsRecorder
}

// NewAuthenticator constructs an Authenticator with real-time defaults.
func NewAuthenticator(secret []byte, tokenLifetime time.Duration, store replay.Store) *Authenticator {
	return &Authenticator{Secret: secret, TokenLifetime: tokenLifetime, Store: store, Now: time.Now}
}

func (a *Authenticator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Authenticator) lifetimeSeconds() int64 {
	return int64(a.TokenLifetime / time.Second)
}

// verify runs the shared steps of spec §4.5's algorithm: extract the
// token, recompute the expected digest from the caller-supplied canonical
// bytes (never from the token except for ts/nonce), compare in constant
// time, then consult the replay store. Every call records its outcome
// against op if a.Metrics is set.
func (a *Authenticator) verify(ctx context.Context, op Op, authorization string, rebuild func(timestamp int64, nonce string) ([]byte, error)) (outcome Outcome) {
	if a.Metrics != nil {
		defer func() { a.Metrics.IncAuthOutcome(op.String(), string(outcome)) }()
	}

	token, err := GetToken(authorization, a.now().Unix(), a.lifetimeSeconds())
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return OutcomeUnauthorized
		}
		return OutcomeForbidden
	}

	toSign, err := rebuild(token.Timestamp, token.Nonce)
	if err != nil {
		return OutcomeForbidden
	}
	expected := expectedDigest(a.Secret, toSign)
	if !digestsEqual(expected, token.HMAC) {
		return OutcomeForbidden
	}

	result, err := a.Store.MarkCodeUsed(ctx, token.HMAC)
	if err != nil {
		return OutcomeUnavailable
	}
	if result == replay.ResultConflict {
		if a.Metrics != nil {
			a.Metrics.IncReplayConflict(op.String())
		}
		return OutcomeForbidden
	}
	return OutcomeOK
}

// --- SUBSCRIBE_EXACT ---

// AuthorizeSubscribeExact signs a SUBSCRIBE_EXACT operation.
func (a *Authenticator) AuthorizeSubscribeExact(p SubscribeExactParams) (string, error) {
	return signOp(a, p.canonical)
}

// IsSubscribeExactAllowed verifies a SUBSCRIBE_EXACT token.
func (a *Authenticator) IsSubscribeExactAllowed(ctx context.Context, p SubscribeExactParams, authorization string) Outcome {
	return a.verify(ctx, OpSubscribeExact, authorization, p.canonical)
}

// --- SUBSCRIBE_GLOB ---

// AuthorizeSubscribeGlob signs a SUBSCRIBE_GLOB operation.
func (a *Authenticator) AuthorizeSubscribeGlob(p SubscribeGlobParams) (string, error) {
	return signOp(a, p.canonical)
}

// IsSubscribeGlobAllowed verifies a SUBSCRIBE_GLOB token.
func (a *Authenticator) IsSubscribeGlobAllowed(ctx context.Context, p SubscribeGlobParams, authorization string) Outcome {
	return a.verify(ctx, OpSubscribeGlob, authorization, p.canonical)
}

// --- NOTIFY ---

// AuthorizeNotify signs a NOTIFY operation.
func (a *Authenticator) AuthorizeNotify(p NotifyParams) (string, error) {
	return signOp(a, p.canonical)
}

// IsNotifyAllowed verifies a NOTIFY token.
func (a *Authenticator) IsNotifyAllowed(ctx context.Context, p NotifyParams, authorization string) Outcome {
	return a.verify(ctx, OpNotify, authorization, p.canonical)
}

// --- WEBSOCKET_CONFIGURE ---

// AuthorizeWebsocketConfigure signs a WEBSOCKET_CONFIGURE operation.
func (a *Authenticator) AuthorizeWebsocketConfigure(p WebsocketConfigureParams) (string, error) {
	return signOp(a, p.canonical)
}

// IsWebsocketConfigureAllowed verifies a WEBSOCKET_CONFIGURE token.
func (a *Authenticator) IsWebsocketConfigureAllowed(ctx context.Context, p WebsocketConfigureParams, authorization string) Outcome {
	return a.verify(ctx, OpWebsocketConfigure, authorization, p.canonical)
}

// --- CHECK_SUBSCRIPTIONS ---

// AuthorizeCheckSubscriptions signs a CHECK_SUBSCRIPTIONS operation.
func (a *Authenticator) AuthorizeCheckSubscriptions(p CheckSubscriptionsParams) (string, error) {
	return signOp(a, p.canonical)
}

// IsCheckSubscriptionsAllowed verifies a CHECK_SUBSCRIPTIONS token.
func (a *Authenticator) IsCheckSubscriptionsAllowed(ctx context.Context, p CheckSubscriptionsParams, authorization string) Outcome {
	return a.verify(ctx, OpCheckSubscriptions, authorization, p.canonical)
}

// --- SET_SUBSCRIPTIONS ---

// AuthorizeSetSubscriptions signs a SET_SUBSCRIPTIONS operation.
func (a *Authenticator) AuthorizeSetSubscriptions(p SetSubscriptionsParams) (string, error) {
	return signOp(a, p.canonical)
}

// IsSetSubscriptionsAllowed verifies a SET_SUBSCRIPTIONS token.
func (a *Authenticator) IsSetSubscriptionsAllowed(ctx context.Context, p SetSubscriptionsParams, authorization string) Outcome {
	return a.verify(ctx, OpSetSubscriptions, authorization, p.canonical)
}

// --- RECEIVE ---

// AuthorizeReceive signs a RECEIVE operation.
func (a *Authenticator) AuthorizeReceive(p ReceiveParams) (string, error) {
	return signOp(a, p.canonical)
}

// IsReceiveAllowed verifies a RECEIVE token.
func (a *Authenticator) IsReceiveAllowed(ctx context.Context, p ReceiveParams, authorization string) Outcome {
	return a.verify(ctx, OpReceive, authorization, p.canonical)
}

// --- MISSED ---

// AuthorizeMissed signs a MISSED operation.
func (a *Authenticator) AuthorizeMissed(p MissedParams) (string, error) {
	return signOp(a, p.canonical)
}

// IsMissedAllowed verifies a MISSED token.
func (a *Authenticator) IsMissedAllowed(ctx context.Context, p MissedParams, authorization string) Outcome {
	return a.verify(ctx, OpMissed, authorization, p.canonical)
}

// --- WEBSOCKET_CONFIRM_CONFIGURE ---

// AuthorizeWebsocketConfirmConfigure signs a WEBSOCKET_CONFIRM_CONFIGURE
// operation.
func (a *Authenticator) AuthorizeWebsocketConfirmConfigure(p WebsocketConfirmConfigureParams) (string, error) {
	return signOp(a, p.canonical)
}

// IsWebsocketConfirmConfigureAllowed verifies a
// WEBSOCKET_CONFIRM_CONFIGURE token.
func (a *Authenticator) IsWebsocketConfirmConfigureAllowed(ctx context.Context, p WebsocketConfirmConfigureParams, authorization string) Outcome {
	return a.verify(ctx, OpWebsocketConfirmConfigure, authorization, p.canonical)
}

// signOp is the shared Authorize<Op> body: mint a nonce, build the
// canonical bytes for "now", sign, and format the token.
func signOp(a *Authenticator, canonicalFn func(timestamp int64, nonce string) ([]byte, error)) (string, error) {
	nonce, err := MakeNonce()
	if err != nil {
		return "", err
	}
	ts := a.now().Unix()
	toSign, err := canonicalFn(ts, nonce)
	if err != nil {
		return "", err
	}
	return sign(a.Secret, ts, nonce, toSign), nil
}
