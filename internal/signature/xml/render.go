package xml

import (
	"encoding/xml"

	"github.com/beevik/etree"

	"github.com/rezonia/myinvois/internal/document"
	"github.com/rezonia/myinvois/internal/signature"
)

// RenderXML renders doc as a UBL 2.1 Invoice element with the Invoice-2,
// CAC and CBC namespaces declared on the root.
func RenderXML(doc *document.Document) (*etree.Document, error) {
	data, err := xml.Marshal(doc)
	if err != nil {
		return nil, signature.ErrRenderFailed(err)
	}

	out := etree.NewDocument()
	if err := out.ReadFromBytes(append([]byte(xml.Header), data...)); err != nil {
		return nil, signature.ErrRenderFailed(err)
	}

	root := out.Root()
	root.CreateAttr("xmlns", document.NamespaceInvoice)
	root.CreateAttr("xmlns:cac", document.NamespaceCAC)
	root.CreateAttr("xmlns:cbc", document.NamespaceCBC)

	out.Indent(2)
	return out, nil
}

// RenderXMLBytes is RenderXML followed by serialization
func RenderXMLBytes(doc *document.Document) ([]byte, error) {
	out, err := RenderXML(doc)
	if err != nil {
		return nil, err
	}
	return out.WriteToBytes()
}
