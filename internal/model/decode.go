package model

import (
	"encoding/json"
	"errors"
	"io"
)

// ParseInvoice decodes a JSON invoice. source names the input in errors.
func ParseInvoice(r io.Reader, source string) (*Invoice, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var inv Invoice
	if err := dec.Decode(&inv); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, NewParseError(source, typeErr.Field, "unexpected "+typeErr.Value, err)
		}
		if errors.Is(err, io.EOF) {
			return nil, NewParseError(source, "body", "empty input", err)
		}
		return nil, NewParseError(source, "body", "invalid invoice JSON", err)
	}
	return &inv, nil
}
