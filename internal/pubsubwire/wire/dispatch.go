package wire

import "fmt"

type s2bParseFunc func(Flags, *reader) (S2BMessage, error)

type b2sParseFunc func(Flags, *reader) (B2SMessage, error)

type s2bEntry struct {
	typ    S2BType
	parser s2bParseFunc
}

type b2sEntry struct {
	typ    B2SType
	parser b2sParseFunc
}

// s2bRegistry lists every S2B parser exactly once. buildDenseTable turns
// this into the dense array dispatch uses (spec §4.3).
var s2bRegistry = []s2bEntry{
	{S2BConfigure, func(f Flags, r *reader) (S2BMessage, error) { return adaptS2B(parseS2BConfigure(f, r)) }},
	{S2BSubscribeExact, func(f Flags, r *reader) (S2BMessage, error) { return adaptS2B(parseS2BSubscribeExact(f, r)) }},
	{S2BSubscribeGlob, func(f Flags, r *reader) (S2BMessage, error) { return adaptS2B(parseS2BSubscribeGlob(f, r)) }},
	{S2BUnsubscribeExact, func(f Flags, r *reader) (S2BMessage, error) { return adaptS2B(parseS2BUnsubscribeExact(f, r)) }},
	{S2BUnsubscribeGlob, func(f Flags, r *reader) (S2BMessage, error) { return adaptS2B(parseS2BUnsubscribeGlob(f, r)) }},
	{S2BNotify, func(f Flags, r *reader) (S2BMessage, error) { return adaptS2B(parseS2BNotify(f, r)) }},
	{S2BNotifyStream, func(f Flags, r *reader) (S2BMessage, error) { return adaptS2B(parseS2BNotifyStream(f, r)) }},
	{S2BConfirmReceive, func(f Flags, r *reader) (S2BMessage, error) { return adaptS2B(parseS2BConfirmReceive(f, r)) }},
	{S2BContinueReceive, func(f Flags, r *reader) (S2BMessage, error) { return adaptS2B(parseS2BContinueReceive(f, r)) }},
}

// b2sRegistry lists every B2S parser exactly once.
var b2sRegistry = []b2sEntry{
	{B2SConfirmConfigure, func(f Flags, r *reader) (B2SMessage, error) { return adaptB2S(parseB2SConfirmConfigure(f, r)) }},
	{B2SConfirmSubscribeExact, func(f Flags, r *reader) (B2SMessage, error) { return adaptB2S(parseB2SConfirmSubscribeExact(f, r)) }},
	{B2SConfirmSubscribeGlob, func(f Flags, r *reader) (B2SMessage, error) { return adaptB2S(parseB2SConfirmSubscribeGlob(f, r)) }},
	{B2SConfirmUnsubscribeExact, func(f Flags, r *reader) (B2SMessage, error) { return adaptB2S(parseB2SConfirmUnsubscribeExact(f, r)) }},
	{B2SConfirmUnsubscribeGlob, func(f Flags, r *reader) (B2SMessage, error) { return adaptB2S(parseB2SConfirmUnsubscribeGlob(f, r)) }},
	{B2SConfirmNotify, func(f Flags, r *reader) (B2SMessage, error) { return adaptB2S(parseB2SConfirmNotify(f, r)) }},
	{B2SContinueNotify, func(f Flags, r *reader) (B2SMessage, error) { return adaptB2S(parseB2SContinueNotify(f, r)) }},
	{B2SEnableZstdPreset, func(f Flags, r *reader) (B2SMessage, error) { return adaptB2S(parseB2SEnableZstdPreset(f, r)) }},
	{B2SEnableZstdCustom, func(f Flags, r *reader) (B2SMessage, error) { return adaptB2S(parseB2SEnableZstdCustom(f, r)) }},
	{B2SReceiveStream, func(f Flags, r *reader) (B2SMessage, error) { return adaptB2S(parseB2SReceiveStream(f, r)) }},
}

func adaptS2B[T S2BMessage](m T, err error) (S2BMessage, error) {
	if err != nil {
		return nil, err
	}
	return m, nil
}

func adaptB2S[T B2SMessage](m T, err error) (B2SMessage, error) {
	if err != nil {
		return nil, err
	}
	return m, nil
}

func buildS2BTable(registry []s2bEntry) []s2bParseFunc {
	maxType, total := 0, len(registry)
	seen := make(map[S2BType]bool, total)
	for _, e := range registry {
		if seen[e.typ] {
			panic(fmt.Sprintf("wire: duplicate s2b type registration %d", e.typ))
		}
		seen[e.typ] = true
		if int(e.typ) > maxType {
			maxType = int(e.typ)
		}
	}
	if maxType >= 2*total {
		panic(fmt.Sprintf("wire: s2b type table too sparse: max=%d total=%d", maxType, total))
	}
	table := make([]s2bParseFunc, maxType+1)
	for _, e := range registry {
		table[e.typ] = e.parser
	}
	return table
}

func buildB2STable(registry []b2sEntry) []b2sParseFunc {
	maxType, total := 0, len(registry)
	seen := make(map[B2SType]bool, total)
	for _, e := range registry {
		if seen[e.typ] {
			panic(fmt.Sprintf("wire: duplicate b2s type registration %d", e.typ))
		}
		seen[e.typ] = true
		if int(e.typ) > maxType {
			maxType = int(e.typ)
		}
	}
	if maxType >= 2*total {
		panic(fmt.Sprintf("wire: b2s type table too sparse: max=%d total=%d", maxType, total))
	}
	table := make([]b2sParseFunc, maxType+1)
	for _, e := range registry {
		table[e.typ] = e.parser
	}
	return table
}

var (
	s2bTable = buildS2BTable(s2bRegistry)
	b2sTable = buildB2STable(b2sRegistry)
)

// ParseS2B dispatches a decoded (flags, type) pair to its registered
// parser. typeCode out of range or unregistered is ErrUnsupportedType
// (spec §4.3).
func ParseS2B(flags Flags, typeCode uint16, payload []byte) (S2BMessage, error) {
	if int(typeCode) >= len(s2bTable) {
		return nil, fmt.Errorf("s2b type %d: %w", typeCode, ErrUnsupportedType)
	}
	parser := s2bTable[typeCode]
	if parser == nil {
		return nil, fmt.Errorf("s2b type %d: %w", typeCode, ErrUnsupportedType)
	}
	return parser(flags, newReader(payload))
}

// ParseB2S is ParseS2B's Broadcaster→Subscriber counterpart.
func ParseB2S(flags Flags, typeCode uint16, payload []byte) (B2SMessage, error) {
	if int(typeCode) >= len(b2sTable) {
		return nil, fmt.Errorf("b2s type %d: %w", typeCode, ErrUnsupportedType)
	}
	parser := b2sTable[typeCode]
	if parser == nil {
		return nil, fmt.Errorf("b2s type %d: %w", typeCode, ErrUnsupportedType)
	}
	return parser(flags, newReader(payload))
}

// ParseS2BFrame splits a complete transport frame (flags ‖ type ‖ body)
// and dispatches it.
func ParseS2BFrame(raw []byte) (S2BMessage, error) {
	flags, typeCode, r, err := splitFrame(raw)
	if err != nil {
		return nil, err
	}
	return ParseS2B(flags, typeCode, r.rest())
}

// ParseB2SFrame is ParseS2BFrame's Broadcaster→Subscriber counterpart.
func ParseB2SFrame(raw []byte) (B2SMessage, error) {
	flags, typeCode, r, err := splitFrame(raw)
	if err != nil {
		return nil, err
	}
	return ParseB2S(flags, typeCode, r.rest())
}
