package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/myinvois/internal/client"
	"github.com/rezonia/myinvois/internal/document"
)

// run executes the root command with fresh command-local state
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	jsonOutput, verbose = false, false
	transformFormat, transformStrict, transformValidate, outputFile = "json", false, false, ""
	codesSearch = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTransformCommand(t *testing.T) {
	out, err := run(t, "transform", "testdata/invoice.json")
	require.NoError(t, err)

	env, err := document.ParseEnvelope(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, env.Invoice, 1)

	doc := env.Invoice[0]
	assert.Equal(t, "INV-0001", doc.ID[0].Value)
	require.Len(t, doc.InvoiceLine, 2)
	// one subtotal per (tax type, rate)
	assert.Len(t, doc.TaxTotal[0].TaxSubtotal, 2)
}

func TestTransformCommand_XMLToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.xml")

	_, err := run(t, "transform", "testdata/invoice.json", "--format", "xml", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("<?xml")))
	assert.Contains(t, string(data), "<cbc:ID>INV-0001</cbc:ID>")
}

func TestTransformCommand_UnknownFormat(t *testing.T) {
	_, err := run(t, "transform", "testdata/invoice.json", "--format", "csv")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good, err := os.ReadFile("testdata/invoice.json")
	require.NoError(t, err)
	bad := bytes.Replace(good, []byte(`"state": "14"`), []byte(`"state": "99"`), 1)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"), good, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), bad, 0o600))

	out, err := run(t, "validate", dir, "--json")
	require.Error(t, err)

	var results []ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)

	byFile := map[string]ValidationResult{}
	for _, r := range results {
		byFile[filepath.Base(r.File)] = r
	}
	assert.True(t, byFile["good.json"].Valid)
	assert.False(t, byFile["bad.json"].Valid)
	assert.Contains(t, byFile["bad.json"].Errors[0], "supplier.address.state")
}

func TestCodesCommand(t *testing.T) {
	out, err := run(t, "codes", "states", "--search", "sabah")
	require.NoError(t, err)
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "Sabah")

	_, err = run(t, "codes", "nope")
	assert.Error(t, err)
}

func TestSubmitCommand(t *testing.T) {
	var submitted int
	mux := http.NewServeMux()
	mux.HandleFunc("POST /connect/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("POST /api/v1.0/documentsubmissions", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Documents []client.DocumentSubmission `json:"documents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		submitted = len(body.Documents)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"submissionUid":"SUB1","acceptedDocuments":[{"uuid":"U1","invoiceCodeNumber":"INV-0001"}],"rejectedDocuments":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := run(t, "submit", "testdata/invoice.json",
		"--base-url", srv.URL, "--identity-url", srv.URL,
		"--client-id", "id", "--client-secret", "secret")
	require.NoError(t, err)

	assert.Equal(t, 1, submitted)
	assert.Contains(t, out, "Submission: SUB1")
	assert.Contains(t, out, "✓ INV-0001: U1")
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-07-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	d, err = parseDate("2024-07-01T08:00:00+08:00")
	require.NoError(t, err)
	assert.Equal(t, 0, d.UTC().Hour())

	d, err = parseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = parseDate("01/07/2024")
	assert.Error(t, err)
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{"a.json", "notes.txt", filepath.Join("nested", "b.JSON")} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o600))
	}

	files, err := collectFiles([]string{dir}, ".json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "nested", "b.JSON"),
	}, files)

	files, err = collectFiles([]string{filepath.Join(dir, "*")}, ".json")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = collectFiles([]string{filepath.Join(dir, "notes.txt")}, ".json")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "notes.txt")}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing.json")}, ".json")
	assert.ErrorContains(t, err, "file not found")
}
