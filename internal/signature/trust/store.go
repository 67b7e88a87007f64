package trust

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"
)

// TrustStore holds the CA certificates a signer's certificate must chain to.
//
// MyInvois accepts signing certificates from the Malaysian licensed CAs; the
// store starts empty and the caller loads the CA bundle it trusts.
type TrustStore struct {
	roots     *x509.CertPool
	rootCerts []*x509.Certificate
	now       func() time.Time
}

// TrustStoreOption configures a TrustStore
type TrustStoreOption func(*TrustStore) error

// NewTrustStore creates a trust store and applies opts in order
func NewTrustStore(opts ...TrustStoreOption) (*TrustStore, error) {
	store := &TrustStore{
		roots:     x509.NewCertPool(),
		rootCerts: make([]*x509.Certificate, 0),
		now:       time.Now,
	}

	for _, opt := range opts {
		if err := opt(store); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// WithCertsFromFile adds the CA certificates of a PEM bundle
func WithCertsFromFile(path string) TrustStoreOption {
	return func(s *TrustStore) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read CA bundle %s: %w", path, err)
		}
		return s.AddCertificatesFromPEM(data)
	}
}

// WithCertificates adds already parsed CA certificates
func WithCertificates(certs ...*x509.Certificate) TrustStoreOption {
	return func(s *TrustStore) error {
		s.AddCertificates(certs...)
		return nil
	}
}

// WithClock overrides the time used for chain validation
func WithClock(now func() time.Time) TrustStoreOption {
	return func(s *TrustStore) error {
		s.now = now
		return nil
	}
}

// AddCertificate adds a single certificate to the trust store
func (s *TrustStore) AddCertificate(cert *x509.Certificate) {
	if cert != nil {
		s.roots.AddCert(cert)
		s.rootCerts = append(s.rootCerts, cert)
	}
}

// AddCertificates adds multiple certificates to the trust store
func (s *TrustStore) AddCertificates(certs ...*x509.Certificate) {
	for _, cert := range certs {
		s.AddCertificate(cert)
	}
}

// AddCertificatesFromPEM parses and adds certificates from PEM data
func (s *TrustStore) AddCertificatesFromPEM(pemData []byte) error {
	var added int
	for {
		block, rest := pem.Decode(pemData)
		if block == nil {
			break
		}
		if block.Type == "CERTIFICATE" {
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return fmt.Errorf("failed to parse certificate: %w", err)
			}
			s.AddCertificate(cert)
			added++
		}
		pemData = rest
	}
	if added == 0 {
		return errors.New("no certificates found in PEM data")
	}
	return nil
}

// VerifyChain verifies the certificate chain against trusted roots
func (s *TrustStore) VerifyChain(cert *x509.Certificate, intermediates []*x509.Certificate) ([]*x509.Certificate, error) {
	if cert == nil {
		return nil, errors.New("certificate is nil")
	}

	var interPool *x509.CertPool
	if len(intermediates) > 0 {
		interPool = x509.NewCertPool()
		for _, inter := range intermediates {
			interPool.AddCert(inter)
		}
	}

	opts := x509.VerifyOptions{
		Roots:         s.roots,
		Intermediates: interPool,
		CurrentTime:   s.now(),
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}

	chains, err := cert.Verify(opts)
	if err != nil {
		return nil, fmt.Errorf("chain verification failed: %w", err)
	}

	if len(chains) == 0 {
		return nil, errors.New("no valid certificate chains found")
	}

	return chains[0], nil
}

// Roots returns the certificate pool
func (s *TrustStore) Roots() *x509.CertPool {
	return s.roots
}

// RootCerts returns the root certificates as a slice
func (s *TrustStore) RootCerts() []*x509.Certificate {
	return s.rootCerts
}

// Len returns the number of trusted certificates
func (s *TrustStore) Len() int {
	return len(s.rootCerts)
}
