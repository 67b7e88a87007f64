package xml

import (
	"bytes"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// XMLDSigNamespace is the XML Signature namespace
const XMLDSigNamespace = "http://www.w3.org/2000/09/xmldsig#"

// SignatureExtractor locates the XMLDSig signature of a UBL invoice
type SignatureExtractor struct{}

// NewSignatureExtractor creates a new signature extractor
func NewSignatureExtractor() *SignatureExtractor {
	return &SignatureExtractor{}
}

// ExtractionResult contains the extracted signature and related elements
type ExtractionResult struct {
	// SignatureElement is the <Signature> element
	SignatureElement *etree.Element
	// Document is the parsed XML document
	Document *etree.Document
	// DocumentID is the invoice number (cbc:ID) of the root element
	DocumentID string
}

// Extract finds the XMLDSig signature in XML data
func (e *SignatureExtractor) Extract(data []byte) (*ExtractionResult, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, errors.New("empty XML document")
	}

	sig := findSignatureElement(root)
	if sig == nil {
		return nil, errors.New("no Signature element found in document")
	}

	result := &ExtractionResult{
		SignatureElement: sig,
		Document:         doc,
	}
	if id := root.SelectElement("ID"); id != nil {
		result.DocumentID = strings.TrimSpace(id.Text())
	}
	return result, nil
}

// findSignatureElement searches for the Signature element in the document
func findSignatureElement(root *etree.Element) *etree.Element {
	searchPaths := []string{
		// Enveloped signature appended to the root
		"Signature",
		// UBL extension placement used by MyInvois v1.1 signed documents
		"UBLExtensions/UBLExtension/ExtensionContent/UBLDocumentSignatures/SignatureInformation/Signature",
	}

	for _, path := range searchPaths {
		if elem := root.FindElement(path); elem != nil {
			return elem
		}
	}

	return findElementRecursive(root, "Signature")
}

// findElementRecursive searches for an element by local name recursively
func findElementRecursive(elem *etree.Element, localName string) *etree.Element {
	if hasLocalName(elem, localName) {
		return elem
	}

	for _, child := range elem.ChildElements() {
		if found := findElementRecursive(child, localName); found != nil {
			return found
		}
	}

	return nil
}

// hasLocalName checks if element has the given local name (ignoring namespace prefix)
func hasLocalName(elem *etree.Element, localName string) bool {
	tag := elem.Tag
	if _, after, ok := strings.Cut(tag, ":"); ok {
		tag = after
	}
	return tag == localName
}

// ExtractCertificates returns the certificates of Signature/KeyInfo/X509Data,
// signing certificate first.
func ExtractCertificates(sig *etree.Element) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	for _, elem := range sig.FindElements("KeyInfo/X509Data/X509Certificate") {
		text := strings.Join(strings.Fields(elem.Text()), "")
		if text == "" {
			continue
		}

		der, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("failed to decode certificate: %w", err)
		}

		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate: %w", err)
		}
		certs = append(certs, cert)
	}

	if len(certs) == 0 {
		return nil, errors.New("no X509Certificate found in Signature")
	}
	return certs, nil
}

// extractSigningTime reads a XAdES signing time when the signer added one
func extractSigningTime(sig *etree.Element) *time.Time {
	paths := []string{
		"Object/QualifyingProperties/SignedProperties/SignedSignatureProperties/SigningTime",
		"Object/SignatureProperties/SignatureProperty/SigningTime",
	}

	for _, path := range paths {
		if elem := sig.FindElement(path); elem != nil {
			text := strings.TrimSpace(elem.Text())
			if t, err := time.Parse(time.RFC3339, text); err == nil {
				return &t
			}
			if t, err := time.Parse("2006-01-02T15:04:05", text); err == nil {
				return &t
			}
		}
	}

	return nil
}

// CanExtract returns true if the data appears to be XML with a signature
func (e *SignatureExtractor) CanExtract(data []byte) bool {
	if !looksLikeXML(data) {
		return false
	}
	return bytes.Contains(data, []byte("<Signature")) ||
		bytes.Contains(data, []byte(":Signature"))
}

func looksLikeXML(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) >= 5 && trimmed[0] == '<'
}
