package trust

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewTrustStore_Empty(t *testing.T) {
	store, err := NewTrustStore()
	if err != nil {
		t.Fatalf("NewTrustStore failed: %v", err)
	}

	if store.Roots() == nil {
		t.Error("roots should not be nil")
	}
	if store.Len() != 0 {
		t.Errorf("Len: got %d, want 0", store.Len())
	}
}

func TestTrustStore_AddCertificatesFromPEM(t *testing.T) {
	store, _ := NewTrustStore()

	root, _ := createCA(t, "Test CA")
	other, _ := createCA(t, "Other CA")
	pemData := append(certToPEM(root), certToPEM(other)...)

	if err := store.AddCertificatesFromPEM(pemData); err != nil {
		t.Fatalf("AddCertificatesFromPEM failed: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("Len: got %d, want 2", store.Len())
	}
	if len(store.RootCerts()) != 2 {
		t.Errorf("RootCerts: got %d, want 2", len(store.RootCerts()))
	}
}

func TestTrustStore_AddCertificatesFromPEM_Invalid(t *testing.T) {
	store, _ := NewTrustStore()

	if err := store.AddCertificatesFromPEM([]byte("not a certificate")); err == nil {
		t.Error("expected error for invalid PEM data")
	}
}

func TestWithCertsFromFile(t *testing.T) {
	root, _ := createCA(t, "File CA")
	path := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(path, certToPEM(root), 0o600); err != nil {
		t.Fatal(err)
	}

	store, err := NewTrustStore(WithCertsFromFile(path))
	if err != nil {
		t.Fatalf("NewTrustStore failed: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("Len: got %d, want 1", store.Len())
	}

	if _, err := NewTrustStore(WithCertsFromFile(filepath.Join(t.TempDir(), "missing.pem"))); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTrustStore_VerifyChain(t *testing.T) {
	rootCert, rootKey := createCA(t, "Test Root CA")
	eeCert := createLeaf(t, rootCert, rootKey)

	store, _ := NewTrustStore(WithCertificates(rootCert))

	chain, err := store.VerifyChain(eeCert, nil)
	if err != nil {
		t.Fatalf("VerifyChain failed: %v", err)
	}
	if len(chain) != 2 {
		t.Errorf("chain length: got %d, want 2", len(chain))
	}
}

func TestTrustStore_VerifyChain_Untrusted(t *testing.T) {
	rootCert, rootKey := createCA(t, "Untrusted Root")
	eeCert := createLeaf(t, rootCert, rootKey)

	store, _ := NewTrustStore()

	if _, err := store.VerifyChain(eeCert, []*x509.Certificate{rootCert}); err == nil {
		t.Error("expected error for untrusted root")
	}
}

func TestTrustStore_VerifyChain_Expired(t *testing.T) {
	rootCert, rootKey := createCA(t, "Test Root CA")
	eeCert := createLeaf(t, rootCert, rootKey)

	store, _ := NewTrustStore(
		WithCertificates(rootCert),
		WithClock(func() time.Time { return time.Now().Add(48 * time.Hour) }),
	)

	if _, err := store.VerifyChain(eeCert, nil); err == nil {
		t.Error("expected error for expired certificate")
	}
}

func TestTrustStore_VerifyChain_NilCert(t *testing.T) {
	store, _ := NewTrustStore()

	if _, err := store.VerifyChain(nil, nil); err == nil {
		t.Error("expected error for nil certificate")
	}
}

// Helper functions

func createCA(t *testing.T, cn string) (*x509.Certificate, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("failed to parse certificate: %v", err)
	}
	return cert, key
}

func createLeaf(t *testing.T, issuer *x509.Certificate, issuerKey *rsa.PrivateKey) *x509.Certificate {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "Supplier Sdn Bhd", SerialNumber: "C2584563222"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, issuer, &key.PublicKey, issuerKey)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("failed to parse certificate: %v", err)
	}
	return cert
}

func certToPEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}
