package myinvois_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/myinvois/pkg/myinvois"
)

func loadInvoice(t *testing.T) *myinvois.Invoice {
	t.Helper()

	f, err := os.Open("testdata/invoice.json")
	require.NoError(t, err)
	defer f.Close()

	inv, err := myinvois.ParseInvoice(f, "invoice.json")
	require.NoError(t, err)
	return inv
}

func TestTransform(t *testing.T) {
	doc, err := myinvois.Transform(loadInvoice(t), myinvois.WithValidation(), myinvois.WithStrictTime())
	require.NoError(t, err)

	payload, err := doc.JSON()
	require.NoError(t, err)

	env, err := myinvois.ParseEnvelope(bytes.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, env.Invoice, 1)
	assert.Equal(t, "INV-0001", env.Invoice[0].ID[0].Value)
}

func TestTransform_StrictTime(t *testing.T) {
	inv := loadInvoice(t)
	inv.EInvoiceTime = "10:15"

	_, err := myinvois.Transform(inv, myinvois.WithStrictTime())

	var timeErr *myinvois.MalformedTimeError
	require.True(t, errors.As(err, &timeErr))
	assert.Equal(t, "10:15", timeErr.Value)
}

func TestTransform_Validation(t *testing.T) {
	inv := loadInvoice(t)
	inv.InvoiceCurrencyCode = "XXX"

	_, err := myinvois.Transform(inv, myinvois.WithValidation())

	var vErr *myinvois.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "invoiceCurrencyCode", vErr.Field)
}

func writeKeyPair(t *testing.T) (certFile, keyFile string, cert *x509.Certificate) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "Supplier Sdn Bhd", SerialNumber: "C2584563222"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err = x509.ParseCertificate(der)
	require.NoError(t, err)

	dir := t.TempDir()
	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), 0o600))
	return certFile, keyFile, cert
}

func TestSignAndVerify(t *testing.T) {
	doc, err := myinvois.Transform(loadInvoice(t))
	require.NoError(t, err)

	certFile, keyFile, cert := writeKeyPair(t)
	signer, err := myinvois.NewSignerFromFiles(certFile, keyFile)
	require.NoError(t, err)

	signed, err := signer.Sign(doc)
	require.NoError(t, err)

	result, err := myinvois.Verify(context.Background(), signed, cert)
	require.NoError(t, err)
	assert.True(t, result.Valid, "errors: %v", result.Errors)

	result, err = myinvois.Verify(context.Background(), signed)
	require.NoError(t, err)
	assert.True(t, result.SignatureValid)
	assert.False(t, result.CertChainValid)
}

func TestVerify_Unsigned(t *testing.T) {
	doc, err := myinvois.Transform(loadInvoice(t))
	require.NoError(t, err)
	data, err := myinvois.RenderXML(doc)
	require.NoError(t, err)

	_, err = myinvois.Verify(context.Background(), data)

	var sigErr *myinvois.SignatureError
	require.True(t, errors.As(err, &sigErr))
	assert.Equal(t, myinvois.ErrCodeNoSignature, sigErr.Code)
}

func TestClient_Token(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /connect/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "C2584563222", r.Header.Get("onbehalfof"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := myinvois.NewClient("id", "secret",
		myinvois.WithBaseURL(srv.URL),
		myinvois.WithIdentityURL(srv.URL),
		myinvois.WithOnBehalfOf("C2584563222"),
		myinvois.WithTokenStore(myinvois.NewMemoryTokenStore()),
	)

	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", tok.AccessToken)
}
