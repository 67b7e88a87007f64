package xml

import (
	"crypto/tls"
	"fmt"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"

	"github.com/rezonia/myinvois/internal/document"
	"github.com/rezonia/myinvois/internal/signature"
)

// Signer adds an enveloped XMLDSig signature to rendered invoices
type Signer struct {
	ctx *dsig.SigningContext
}

// NewSigner creates a signer backed by an RSA key store
func NewSigner(ks dsig.X509KeyStore) (*Signer, error) {
	if _, _, err := ks.GetKeyPair(); err != nil {
		return nil, signature.ErrInvalidKey(err)
	}
	return &Signer{ctx: dsig.NewDefaultSigningContext(ks)}, nil
}

// NewSignerFromFiles loads a PEM certificate and private key pair.
// The certificate file may carry the issuing chain after the signing certificate.
func NewSignerFromFiles(certFile, keyFile string) (*Signer, error) {
	pair, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, signature.ErrInvalidKey(fmt.Errorf("load %s: %w", certFile, err))
	}
	return NewSigner(dsig.TLSCertKeyStore(pair))
}

// Sign renders doc as UBL XML and signs it
func (s *Signer) Sign(doc *document.Document) ([]byte, error) {
	rendered, err := RenderXML(doc)
	if err != nil {
		return nil, err
	}
	return s.SignDocument(rendered)
}

// SignDocument signs the root element of an XML document. The input is not modified.
func (s *Signer) SignDocument(doc *etree.Document) ([]byte, error) {
	root := doc.Root()
	if root == nil {
		return nil, signature.ErrSigningFailed(fmt.Errorf("empty XML document"))
	}

	signed, err := s.ctx.SignEnveloped(root)
	if err != nil {
		return nil, signature.ErrSigningFailed(err)
	}

	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	out.SetRoot(signed)
	return out.WriteToBytes()
}
