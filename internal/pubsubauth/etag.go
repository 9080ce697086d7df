package pubsubauth

import "errors"

// EtagFormat identifies how a SET_SUBSCRIPTIONS strong etag was computed.
// SPEC_FULL.md's "Strong ETag" section adds this to pin down the one
// concrete field the original spec's canonical-encoding table left
// abstract ("1 B etag-format + etag bytes").
type EtagFormat uint8

// EtagFormatSHA256 is a 32-byte digest over the sorted subscription set.
const EtagFormatSHA256 EtagFormat = 1

// etagLengths maps a known format to its fixed encoded length, so adding a
// format never changes the shape of the canonical encoding itself.
var etagLengths = map[EtagFormat]int{
	EtagFormatSHA256: 32,
}

// ErrUnknownEtagFormat is returned for an etag format absent from
// etagLengths, or an etag whose length disagrees with its declared format.
var ErrUnknownEtagFormat = errors.New("pubsubauth: unknown or mismatched etag format")
