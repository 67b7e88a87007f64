package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// UBL 2.1 namespaces declared by the JSON envelope and the XML root
const (
	NamespaceInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NamespaceCAC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NamespaceCBC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// Envelope is the JSON document submitted to the platform
type Envelope struct {
	D       string     `json:"_D"`
	A       string     `json:"_A"`
	B       string     `json:"_B"`
	Invoice []Document `json:"Invoice"`
}

// NewEnvelope wraps documents with the UBL namespaces
func NewEnvelope(docs ...Document) *Envelope {
	return &Envelope{
		D:       NamespaceInvoice,
		A:       NamespaceCAC,
		B:       NamespaceCBC,
		Invoice: docs,
	}
}

// Envelope wraps d alone
func (d *Document) Envelope() *Envelope {
	return NewEnvelope(*d)
}

// JSON returns the compact envelope JSON for d
func (d *Document) JSON() ([]byte, error) {
	return d.Envelope().JSON()
}

// JSON returns the compact envelope JSON
func (e *Envelope) JSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}

// ParseEnvelope decodes an envelope, e.g. one returned by GetDocument
func ParseEnvelope(r io.Reader) (*Envelope, error) {
	var env Envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if len(env.Invoice) == 0 {
		return nil, errors.New("decode envelope: no Invoice element")
	}
	return &env, nil
}
