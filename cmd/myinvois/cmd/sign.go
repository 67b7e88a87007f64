package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/myinvois/internal/document"
	xmlsig "github.com/rezonia/myinvois/internal/signature/xml"
)

var (
	certFile string
	keyFile  string
)

var signCmd = &cobra.Command{
	Use:   "sign <invoice.json>",
	Short: "Render an invoice as signed UBL XML",
	Long: `Transform an invoice and sign the rendered UBL XML with an enveloped
XMLDSig signature.

The certificate file is PEM and may carry the issuing chain after the
signing certificate. The key file holds the matching RSA private key.

Examples:
  myinvois sign invoice.json --cert cert.pem --key key.pem -o invoice.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runSign,
}

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().StringVar(&certFile, "cert", "", "Signing certificate (PEM)")
	signCmd.Flags().StringVar(&keyFile, "key", "", "Private key (PEM)")
	signCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	signCmd.Flags().BoolVar(&transformStrict, "strict", false, "Fail on a malformed issue time instead of using 00:00:00Z")
	_ = signCmd.MarkFlagRequired("cert")
	_ = signCmd.MarkFlagRequired("key")
}

func runSign(cmd *cobra.Command, args []string) error {
	signer, err := xmlsig.NewSignerFromFiles(certFile, keyFile)
	if err != nil {
		return err
	}

	docs, err := transformFiles(args, transformOptions()...)
	if err != nil {
		return err
	}

	signed, err := signDocument(signer, &docs[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	w, closeFn, err := openOutput(outputFile, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if _, err := w.Write(signed); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

func signDocument(signer *xmlsig.Signer, doc *document.Document) ([]byte, error) {
	signed, err := signer.Sign(doc)
	if err != nil {
		return nil, err
	}
	log.Debug("signed document")
	return signed, nil
}
