package wire

// authValue returns the wire bytes for an authorization string under the
// "optional string as empty string" bijection (spec §9): an absent
// authorization is the empty string in memory and is encoded as a
// zero-length header value in minimal mode.
func authValue(authorization string) []byte {
	return []byte(authorization)
}

// S2BSubscribeExactMsg requests a subscription to one opaque topic.
type S2BSubscribeExactMsg struct {
	Authorization string
	Topic         []byte
}

func (*S2BSubscribeExactMsg) s2bType() S2BType { return S2BSubscribeExact }

func parseS2BSubscribeExact(flags Flags, r *reader) (*S2BSubscribeExactMsg, error) {
	auth, topic, err := parseAuthAndBlob(flags, r, hdrAuthorization, hdrTopic, true)
	if err != nil {
		return nil, err
	}
	return &S2BSubscribeExactMsg{Authorization: auth, Topic: topic}, nil
}

// Marshal serializes msg.
func (msg *S2BSubscribeExactMsg) Marshal(minimal bool) []byte {
	return frame(minimal, uint16(S2BSubscribeExact),
		marshalAuthAndBlob(minimal, hdrAuthorization, hdrTopic, msg.Authorization, msg.Topic))
}

// S2BSubscribeGlobMsg requests a subscription to every topic matching glob.
type S2BSubscribeGlobMsg struct {
	Authorization string
	Glob          string
}

func (*S2BSubscribeGlobMsg) s2bType() S2BType { return S2BSubscribeGlob }

func parseS2BSubscribeGlob(flags Flags, r *reader) (*S2BSubscribeGlobMsg, error) {
	auth, glob, err := parseAuthAndBlob(flags, r, hdrAuthorization, hdrGlob, true)
	if err != nil {
		return nil, err
	}
	return &S2BSubscribeGlobMsg{Authorization: auth, Glob: string(glob)}, nil
}

// Marshal serializes msg.
func (msg *S2BSubscribeGlobMsg) Marshal(minimal bool) []byte {
	return frame(minimal, uint16(S2BSubscribeGlob),
		marshalAuthAndBlob(minimal, hdrAuthorization, hdrGlob, msg.Authorization, []byte(msg.Glob)))
}

// S2BUnsubscribeExactMsg cancels a prior exact-topic subscription.
type S2BUnsubscribeExactMsg struct {
	Authorization string
	Topic         []byte
}

func (*S2BUnsubscribeExactMsg) s2bType() S2BType { return S2BUnsubscribeExact }

func parseS2BUnsubscribeExact(flags Flags, r *reader) (*S2BUnsubscribeExactMsg, error) {
	auth, topic, err := parseAuthAndBlob(flags, r, hdrAuthorization, hdrTopic, true)
	if err != nil {
		return nil, err
	}
	return &S2BUnsubscribeExactMsg{Authorization: auth, Topic: topic}, nil
}

// Marshal serializes msg.
func (msg *S2BUnsubscribeExactMsg) Marshal(minimal bool) []byte {
	return frame(minimal, uint16(S2BUnsubscribeExact),
		marshalAuthAndBlob(minimal, hdrAuthorization, hdrTopic, msg.Authorization, msg.Topic))
}

// S2BUnsubscribeGlobMsg cancels a prior glob subscription.
type S2BUnsubscribeGlobMsg struct {
	Authorization string
	Glob          string
}

func (*S2BUnsubscribeGlobMsg) s2bType() S2BType { return S2BUnsubscribeGlob }

func parseS2BUnsubscribeGlob(flags Flags, r *reader) (*S2BUnsubscribeGlobMsg, error) {
	auth, glob, err := parseAuthAndBlob(flags, r, hdrAuthorization, hdrGlob, true)
	if err != nil {
		return nil, err
	}
	return &S2BUnsubscribeGlobMsg{Authorization: auth, Glob: string(glob)}, nil
}

// Marshal serializes msg.
func (msg *S2BUnsubscribeGlobMsg) Marshal(minimal bool) []byte {
	return frame(minimal, uint16(S2BUnsubscribeGlob),
		marshalAuthAndBlob(minimal, hdrAuthorization, hdrGlob, msg.Authorization, []byte(msg.Glob)))
}

// B2SConfirmSubscribeExactMsg confirms an exact-topic subscription. Unlike
// its S2B counterpart it carries no authorization field (original source
// resolution, see SPEC_FULL.md §3).
type B2SConfirmSubscribeExactMsg struct {
	Topic []byte
}

func (*B2SConfirmSubscribeExactMsg) b2sType() B2SType { return B2SConfirmSubscribeExact }

func parseB2SConfirmSubscribeExact(flags Flags, r *reader) (*B2SConfirmSubscribeExactMsg, error) {
	_, topic, err := parseAuthAndBlob(flags, r, "", hdrTopic, false)
	if err != nil {
		return nil, err
	}
	return &B2SConfirmSubscribeExactMsg{Topic: topic}, nil
}

// Marshal serializes msg.
func (msg *B2SConfirmSubscribeExactMsg) Marshal(minimal bool) []byte {
	return frame(minimal, uint16(B2SConfirmSubscribeExact),
		marshalAuthAndBlob(minimal, "", hdrTopic, "", msg.Topic))
}

// B2SConfirmSubscribeGlobMsg confirms a glob subscription.
type B2SConfirmSubscribeGlobMsg struct {
	Glob string
}

func (*B2SConfirmSubscribeGlobMsg) b2sType() B2SType { return B2SConfirmSubscribeGlob }

func parseB2SConfirmSubscribeGlob(flags Flags, r *reader) (*B2SConfirmSubscribeGlobMsg, error) {
	_, glob, err := parseAuthAndBlob(flags, r, "", hdrGlob, false)
	if err != nil {
		return nil, err
	}
	return &B2SConfirmSubscribeGlobMsg{Glob: string(glob)}, nil
}

// Marshal serializes msg.
func (msg *B2SConfirmSubscribeGlobMsg) Marshal(minimal bool) []byte {
	return frame(minimal, uint16(B2SConfirmSubscribeGlob),
		marshalAuthAndBlob(minimal, "", hdrGlob, "", []byte(msg.Glob)))
}

// B2SConfirmUnsubscribeExactMsg confirms an exact-topic unsubscription.
type B2SConfirmUnsubscribeExactMsg struct {
	Topic []byte
}

func (*B2SConfirmUnsubscribeExactMsg) b2sType() B2SType { return B2SConfirmUnsubscribeExact }

func parseB2SConfirmUnsubscribeExact(flags Flags, r *reader) (*B2SConfirmUnsubscribeExactMsg, error) {
	_, topic, err := parseAuthAndBlob(flags, r, "", hdrTopic, false)
	if err != nil {
		return nil, err
	}
	return &B2SConfirmUnsubscribeExactMsg{Topic: topic}, nil
}

// Marshal serializes msg.
func (msg *B2SConfirmUnsubscribeExactMsg) Marshal(minimal bool) []byte {
	return frame(minimal, uint16(B2SConfirmUnsubscribeExact),
		marshalAuthAndBlob(minimal, "", hdrTopic, "", msg.Topic))
}

// B2SConfirmUnsubscribeGlobMsg confirms a glob unsubscription.
type B2SConfirmUnsubscribeGlobMsg struct {
	Glob string
}

func (*B2SConfirmUnsubscribeGlobMsg) b2sType() B2SType { return B2SConfirmUnsubscribeGlob }

func parseB2SConfirmUnsubscribeGlob(flags Flags, r *reader) (*B2SConfirmUnsubscribeGlobMsg, error) {
	_, glob, err := parseAuthAndBlob(flags, r, "", hdrGlob, false)
	if err != nil {
		return nil, err
	}
	return &B2SConfirmUnsubscribeGlobMsg{Glob: string(glob)}, nil
}

// Marshal serializes msg.
func (msg *B2SConfirmUnsubscribeGlobMsg) Marshal(minimal bool) []byte {
	return frame(minimal, uint16(B2SConfirmUnsubscribeGlob),
		marshalAuthAndBlob(minimal, "", hdrGlob, "", []byte(msg.Glob)))
}

// parseAuthAndBlob decodes the shared two-header shape ([authorization,]
// blob) used by every subscribe/unsubscribe variant. withAuth controls
// whether the authorization header is present at all (request variants
// carry it; confirmation variants don't, per the original source).
func parseAuthAndBlob(flags Flags, r *reader, authName, blobName string, withAuth bool) (string, []byte, error) {
	if flags.Minimal() {
		count := 1
		if withAuth {
			count = 2
		}
		vals, err := readMinimalValues(r, count)
		if err != nil {
			return "", nil, err
		}
		if withAuth {
			return string(vals[0]), vals[1], nil
		}
		return "", vals[0], nil
	}

	pairs, err := parseExpandedHeaders(r)
	if err != nil {
		return "", nil, err
	}
	var auth string
	if withAuth {
		if v, ok, lerr := lookupHeader(pairs, authName); lerr != nil {
			return "", nil, lerr
		} else if ok {
			auth = string(v)
		}
	}
	blob, err := requireHeader(pairs, blobName)
	if err != nil {
		return "", nil, err
	}
	return auth, blob, nil
}

// marshalAuthAndBlob is the serializer counterpart of parseAuthAndBlob.
func marshalAuthAndBlob(minimal bool, authName, blobName, authorization string, blob []byte) []byte {
	if minimal {
		if authName == "" {
			return writeMinimalHeaders([][]byte{blob})
		}
		return writeMinimalHeaders([][]byte{authValue(authorization), blob})
	}
	if authName == "" {
		return writeExpandedHeaders([]string{blobName}, [][]byte{blob})
	}
	if authorization == "" {
		return writeExpandedHeaders([]string{blobName}, [][]byte{blob})
	}
	return writeExpandedHeaders([]string{authName, blobName}, [][]byte{authValue(authorization), blob})
}
