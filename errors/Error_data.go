package errors

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ErrDataI is an interface for error data that can be set, retrieved, and encoded.
type ErrDataI interface {
	EncodeErrorData() []byte
	Error() string
	GetData(key string) interface{}
	SetData(key string, value interface{})
}

// ErrData is a generic error data structure that implements the ErrDataI interface.
type ErrData map[string]interface{}

// Error returns the key/value pairs sorted by key.
func (e *ErrData) Error() string {
	if e == nil || len(*e) == 0 {
		return ""
	}

	keys := make([]string, 0, len(*e))
	for k := range *e {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, (*e)[k]))
	}

	return strings.Join(parts, " ")
}

// SetData sets a key-value pair in the error data.
func (e *ErrData) SetData(key string, value interface{}) {
	if e == nil {
		return
	}

	if *e == nil {
		*e = ErrData{}
	}

	(*e)[key] = value
}

// GetData retrieves the value associated with a key in the error data.
func (e *ErrData) GetData(key string) interface{} {
	if e == nil {
		return nil
	}

	return (*e)[key]
}

// EncodeErrorData encodes the error data as JSON.
func (e *ErrData) EncodeErrorData() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return []byte{}
	}

	return data
}

// DecodeErrorData is the inverse of EncodeErrorData.
func DecodeErrorData(dataBytes []byte) (ErrDataI, error) {
	errData := &ErrData{}

	if err := json.Unmarshal(dataBytes, errData); err != nil {
		return nil, err
	}

	return errData, nil
}
