// Protobuf wire codec for the VSS messages, assembled by hand on top of
// protowire so the repo does not depend on generated code. Field numbers are
// part of the server contract and are pinned by the golden tests in
// wire_test.go:
//
//	KeyValue                key=1 version=2 value=3
//	TransactionItem         key=1 value=2 version=3 expected_version=4
//	GetObjectRequest        store_id=1 key=2
//	GetObjectResponse       value=1
//	PutObjectRequest        store_id=1 transaction_items=2
//	DeleteObjectRequest     store_id=1 key=2 expected_version=3
//	ListKeyVersionsRequest  store_id=1 key_prefix=2 page_size=3 page_token=4
//	ListKeyVersionsResponse key_versions=1 next_page_token=2
//	ErrorResponse           error_code=1 message=2
//
// Encoders follow proto3 presence rules: zero-valued scalar fields are
// omitted, pointer fields are emitted whenever non-nil. Decoders skip unknown
// fields and treat absent fields as zero values.
package vsstypes

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// fieldFunc consumes the value of one known field and returns the number of
// bytes read, or a negative protowire error count.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, bool)

// walkFields drives a decode loop: known fields go through fn, everything
// else is skipped so newer servers can add fields without breaking us.
func walkFields(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "malformed field tag")
		}
		b = b[n:]

		if m, ok := fn(num, typ, b); ok {
			if m < 0 {
				return errors.Wrapf(protowire.ParseError(m), "malformed field %d", num)
			}
			b = b[m:]
			continue
		}

		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return errors.Wrapf(protowire.ParseError(m), "malformed field %d", num)
		}
		b = b[m:]
	}
	return nil
}

// Marshal encodes the message in protobuf wire format.
func (m *KeyValue) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Key)
	b = appendInt64(b, 2, m.Version)
	b = appendBytes(b, 3, m.Value)
	return b
}

// Unmarshal decodes the message from protobuf wire format, replacing m.
func (m *KeyValue) Unmarshal(b []byte) error {
	*m = KeyValue{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.Key = v
			return n, true
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.Version = int64(v)
			return n, true
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n >= 0 {
				m.Value = append([]byte(nil), v...)
			}
			return n, true
		}
		return 0, false
	})
}

func (m *TransactionItem) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Key)
	b = appendBytes(b, 2, m.Value)
	b = appendInt64(b, 3, m.Version)
	if m.ExpectedVersion != nil {
		b = protowire.AppendTag(b, 4, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*m.ExpectedVersion))
	}
	return b
}

func (m *TransactionItem) Unmarshal(b []byte) error {
	*m = TransactionItem{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.Key = v
			return n, true
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n >= 0 {
				m.Value = append([]byte(nil), v...)
			}
			return n, true
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.Version = int64(v)
			return n, true
		case num == 4 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n >= 0 {
				ev := int64(v)
				m.ExpectedVersion = &ev
			}
			return n, true
		}
		return 0, false
	})
}

func (m *GetObjectRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.StoreID)
	b = appendString(b, 2, m.Key)
	return b
}

func (m *GetObjectRequest) Unmarshal(b []byte) error {
	*m = GetObjectRequest{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.StoreID = v
			return n, true
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.Key = v
			return n, true
		}
		return 0, false
	})
}

func (m *GetObjectResponse) Marshal() []byte {
	var b []byte
	if m.Value != nil {
		b = appendMessage(b, 1, m.Value.Marshal())
	}
	return b
}

func (m *GetObjectResponse) Unmarshal(b []byte) error {
	*m = GetObjectResponse{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if num == 1 && typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(b)
			if n >= 0 {
				kv := new(KeyValue)
				if err := kv.Unmarshal(v); err != nil {
					return -1, true
				}
				m.Value = kv
			}
			return n, true
		}
		return 0, false
	})
}

func (m *PutObjectRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.StoreID)
	for i := range m.TransactionItems {
		b = appendMessage(b, 2, m.TransactionItems[i].Marshal())
	}
	return b
}

func (m *PutObjectRequest) Unmarshal(b []byte) error {
	*m = PutObjectRequest{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.StoreID = v
			return n, true
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n >= 0 {
				var item TransactionItem
				if err := item.Unmarshal(v); err != nil {
					return -1, true
				}
				m.TransactionItems = append(m.TransactionItems, item)
			}
			return n, true
		}
		return 0, false
	})
}

func (m *PutObjectResponse) Marshal() []byte {
	return []byte{}
}

func (m *PutObjectResponse) Unmarshal(b []byte) error {
	*m = PutObjectResponse{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		return 0, false
	})
}

func (m *DeleteObjectRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.StoreID)
	b = appendString(b, 2, m.Key)
	if m.ExpectedVersion != nil {
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*m.ExpectedVersion))
	}
	return b
}

func (m *DeleteObjectRequest) Unmarshal(b []byte) error {
	*m = DeleteObjectRequest{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.StoreID = v
			return n, true
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.Key = v
			return n, true
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n >= 0 {
				ev := int64(v)
				m.ExpectedVersion = &ev
			}
			return n, true
		}
		return 0, false
	})
}

func (m *DeleteObjectResponse) Marshal() []byte {
	return []byte{}
}

func (m *DeleteObjectResponse) Unmarshal(b []byte) error {
	*m = DeleteObjectResponse{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		return 0, false
	})
}

func (m *ListKeyVersionsRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.StoreID)
	b = appendString(b, 2, m.KeyPrefix)
	b = appendInt64(b, 3, int64(m.PageSize))
	b = appendString(b, 4, m.PageToken)
	return b
}

func (m *ListKeyVersionsRequest) Unmarshal(b []byte) error {
	*m = ListKeyVersionsRequest{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.StoreID = v
			return n, true
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.KeyPrefix = v
			return n, true
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.PageSize = int32(v)
			return n, true
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.PageToken = v
			return n, true
		}
		return 0, false
	})
}

func (m *ListKeyVersionsResponse) Marshal() []byte {
	var b []byte
	for i := range m.KeyVersions {
		b = appendMessage(b, 1, m.KeyVersions[i].Marshal())
	}
	b = appendString(b, 2, m.NextPageToken)
	return b
}

func (m *ListKeyVersionsResponse) Unmarshal(b []byte) error {
	*m = ListKeyVersionsResponse{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n >= 0 {
				var kv KeyValue
				if err := kv.Unmarshal(v); err != nil {
					return -1, true
				}
				m.KeyVersions = append(m.KeyVersions, kv)
			}
			return n, true
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.NextPageToken = v
			return n, true
		}
		return 0, false
	})
}

func (m *ErrorResponse) Marshal() []byte {
	var b []byte
	b = appendInt64(b, 1, int64(m.Code))
	b = appendString(b, 2, m.Message)
	return b
}

func (m *ErrorResponse) Unmarshal(b []byte) error {
	*m = ErrorResponse{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.Code = ErrorCode(v)
			return n, true
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.Message = v
			return n, true
		}
		return 0, false
	})
}
