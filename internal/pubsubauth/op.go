package pubsubauth

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Op is a 1-byte operation tag, the domain separator at the front of every
// canonical to-sign buffer (spec §4.4). Distinct tags guarantee the
// canonical encoding of one operation can never be substring-confused with
// another's.
type Op uint8

const (
	OpSubscribeExact            Op = 1
	OpSubscribeGlob             Op = 2
	OpNotify                    Op = 3
	OpWebsocketConfigure        Op = 4
	OpCheckSubscriptions        Op = 5
	OpSetSubscriptions          Op = 6
	OpReceive                   Op = 7
	OpMissed                    Op = 8
	OpWebsocketConfirmConfigure Op = 9
)

var opNames = map[Op]string{
	OpSubscribeExact:           "subscribe_exact",
	OpSubscribeGlob:            "subscribe_glob",
	OpNotify:                   "notify",
	OpWebsocketConfigure:       "websocket_configure",
	OpCheckSubscriptions:       "check_subscriptions",
	OpSetSubscriptions:         "set_subscriptions",
	OpReceive:                  "receive",
	OpMissed:                   "missed",
	OpWebsocketConfirmConfigure: "websocket_confirm_configure",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// ErrFieldTooLarge is returned by a canonical builder when a variable-
// length field would overflow its length prefix.
var ErrFieldTooLarge = errors.New("pubsubauth: field exceeds its length prefix")

// canonicalPrefix builds the tag + timestamp + nonce prefix shared by
// every operation (spec §4.4 items 1-3).
func canonicalPrefix(tag Op, timestamp int64, nonce string) ([]byte, error) {
	nb := []byte(nonce)
	if len(nb) > 0xFF {
		return nil, fmt.Errorf("nonce: %w", ErrFieldTooLarge)
	}
	buf := make([]byte, 0, 1+8+1+len(nb))
	buf = append(buf, byte(tag))
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(timestamp))
	buf = append(buf, ts[:]...)
	buf = append(buf, byte(len(nb)))
	buf = append(buf, nb...)
	return buf, nil
}

func appendLen16(buf, value []byte) ([]byte, error) {
	if len(value) > 0xFFFF {
		return nil, fmt.Errorf("field: %w", ErrFieldTooLarge)
	}
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(value)))
	buf = append(buf, l[:]...)
	return append(buf, value...), nil
}

func appendLen8(buf, value []byte) ([]byte, error) {
	if len(value) > 0xFF {
		return nil, fmt.Errorf("field: %w", ErrFieldTooLarge)
	}
	buf = append(buf, byte(len(value)))
	return append(buf, value...), nil
}

// SubscribeExactParams is the parameter set authorizing one exact-topic
// subscription.
type SubscribeExactParams struct {
	URL      string
	Recovery string // empty when absent
	Topic    []byte
}

func (p SubscribeExactParams) canonical(timestamp int64, nonce string) ([]byte, error) {
	buf, err := canonicalPrefix(OpSubscribeExact, timestamp, nonce)
	if err != nil {
		return nil, err
	}
	if buf, err = appendLen16(buf, []byte(p.URL)); err != nil {
		return nil, err
	}
	if buf, err = appendLen16(buf, []byte(p.Recovery)); err != nil {
		return nil, err
	}
	return appendLen16(buf, p.Topic)
}

// SubscribeGlobParams authorizes a glob subscription.
type SubscribeGlobParams struct {
	URL      string
	Recovery string
	Glob     string
}

func (p SubscribeGlobParams) canonical(timestamp int64, nonce string) ([]byte, error) {
	buf, err := canonicalPrefix(OpSubscribeGlob, timestamp, nonce)
	if err != nil {
		return nil, err
	}
	if buf, err = appendLen16(buf, []byte(p.URL)); err != nil {
		return nil, err
	}
	if buf, err = appendLen16(buf, []byte(p.Recovery)); err != nil {
		return nil, err
	}
	return appendLen16(buf, []byte(p.Glob))
}

// NotifyParams authorizes a single notify operation.
type NotifyParams struct {
	Topic  []byte
	SHA512 [64]byte
}

func (p NotifyParams) canonical(timestamp int64, nonce string) ([]byte, error) {
	buf, err := canonicalPrefix(OpNotify, timestamp, nonce)
	if err != nil {
		return nil, err
	}
	if buf, err = appendLen16(buf, p.Topic); err != nil {
		return nil, err
	}
	return append(buf, p.SHA512[:]...), nil
}

// WebsocketConfigureParams authorizes opening a stateful session.
type WebsocketConfigureParams struct {
	SubscriberNonce [32]byte
	EnableZstd      bool
	EnableTraining  bool
	InitialDict     uint16
}

func (p WebsocketConfigureParams) canonical(timestamp int64, nonce string) ([]byte, error) {
	buf, err := canonicalPrefix(OpWebsocketConfigure, timestamp, nonce)
	if err != nil {
		return nil, err
	}
	if buf, err = appendLen8(buf, p.SubscriberNonce[:]); err != nil {
		return nil, err
	}
	buf = append(buf, boolByte(p.EnableZstd), boolByte(p.EnableTraining))
	var id [2]byte
	binary.BigEndian.PutUint16(id[:], p.InitialDict)
	return append(buf, id[:]...), nil
}

// CheckSubscriptionsParams authorizes a stateless subscription-list check.
type CheckSubscriptionsParams struct {
	URL string
}

func (p CheckSubscriptionsParams) canonical(timestamp int64, nonce string) ([]byte, error) {
	buf, err := canonicalPrefix(OpCheckSubscriptions, timestamp, nonce)
	if err != nil {
		return nil, err
	}
	return appendLen16(buf, []byte(p.URL))
}

// SetSubscriptionsParams authorizes replacing a subscription list,
// identified by a strong etag over the new set (SPEC_FULL.md "Strong
// ETag").
type SetSubscriptionsParams struct {
	URL        string
	EtagFormat EtagFormat
	Etag       []byte
}

func (p SetSubscriptionsParams) canonical(timestamp int64, nonce string) ([]byte, error) {
	buf, err := canonicalPrefix(OpSetSubscriptions, timestamp, nonce)
	if err != nil {
		return nil, err
	}
	if buf, err = appendLen16(buf, []byte(p.URL)); err != nil {
		return nil, err
	}
	want, ok := etagLengths[p.EtagFormat]
	if !ok {
		return nil, fmt.Errorf("etag format %d: %w", p.EtagFormat, ErrUnknownEtagFormat)
	}
	if len(p.Etag) != want {
		return nil, fmt.Errorf("etag format %d: expected %d bytes, got %d: %w",
			p.EtagFormat, want, len(p.Etag), ErrUnknownEtagFormat)
	}
	buf = append(buf, byte(p.EtagFormat))
	return append(buf, p.Etag...), nil
}

// ReceiveParams authorizes delivering one notification to one subscriber
// connection.
type ReceiveParams struct {
	URL    string
	Topic  []byte
	SHA512 [64]byte
}

func (p ReceiveParams) canonical(timestamp int64, nonce string) ([]byte, error) {
	buf, err := canonicalPrefix(OpReceive, timestamp, nonce)
	if err != nil {
		return nil, err
	}
	if buf, err = appendLen16(buf, []byte(p.URL)); err != nil {
		return nil, err
	}
	if buf, err = appendLen16(buf, p.Topic); err != nil {
		return nil, err
	}
	return append(buf, p.SHA512[:]...), nil
}

// MissedParams authorizes a missed-notification recovery report.
type MissedParams struct {
	Recovery string
	Topic    []byte
}

func (p MissedParams) canonical(timestamp int64, nonce string) ([]byte, error) {
	buf, err := canonicalPrefix(OpMissed, timestamp, nonce)
	if err != nil {
		return nil, err
	}
	if buf, err = appendLen16(buf, []byte(p.Recovery)); err != nil {
		return nil, err
	}
	return appendLen16(buf, p.Topic)
}

// WebsocketConfirmConfigureParams authorizes the broadcaster's reply to
// WEBSOCKET_CONFIGURE.
type WebsocketConfirmConfigureParams struct {
	BroadcasterNonce [32]byte
}

func (p WebsocketConfirmConfigureParams) canonical(timestamp int64, nonce string) ([]byte, error) {
	buf, err := canonicalPrefix(OpWebsocketConfirmConfigure, timestamp, nonce)
	if err != nil {
		return nil, err
	}
	return appendLen8(buf, p.BroadcasterNonce[:])
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
