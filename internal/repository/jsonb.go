package repository

import (
	"errors"

	"github.com/bytedance/sonic"
)

const dateLayout = "2006-01-02"

// marshalJSONB encodes v for a jsonb column. Nil pointers become SQL NULL.
func marshalJSONB(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, errors.New("marshalling jsonb error: " + err.Error())
	}
	return raw, nil
}

// unmarshalJSONB decodes a jsonb column into target, leaving it untouched
// for NULL.
func unmarshalJSONB(raw []byte, target any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return errors.New("unmarshalling jsonb error: " + err.Error())
	}
	return nil
}
