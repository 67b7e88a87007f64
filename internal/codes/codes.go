// Package codes holds the code lists published for MyInvois e-invoices.
//
// Each list is a Table of code/description pairs. The transformer embeds a
// handful of fixed protocol constants from this package; the tables are used
// by validation and by the CLI and HTTP lookups.
package codes

import (
	"sort"
	"strings"
)

// Protocol constants embedded in every document
const (
	TaxSchemeID        = "OTH"
	TaxSchemeIDScheme  = "UN/ECE 5153"
	TaxSchemeAgencyID  = "6"
	SchemeTIN          = "TIN"
	SchemeBRN          = "BRN"
	SchemeSST          = "SST"
	ListClassification = "CLASS"
	ListCountry        = "ISO3166-1"
	ListAgencyCountry  = "6"

	// TaxCategoryExempt marks an exempted line or subtotal
	TaxCategoryExempt = "E"
	// TaxCategoryStandard is used whenever no exemption applies
	TaxCategoryStandard = "01"

	// NotApplicable fills identifiers a party does not hold
	NotApplicable = "NA"
)

// Entry is a single code with its published description
type Entry struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Table is an immutable code list
type Table struct {
	name    string
	entries []Entry
	index   map[string]string
}

func newTable(name string, entries []Entry) *Table {
	t := &Table{
		name:    name,
		entries: entries,
		index:   make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		t.index[e.Code] = e.Description
	}
	return t
}

// Name returns the table name used by Get
func (t *Table) Name() string {
	return t.name
}

// Lookup returns the description for code
func (t *Table) Lookup(code string) (string, bool) {
	desc, ok := t.index[code]
	return desc, ok
}

// Valid reports whether code is in the table
func (t *Table) Valid(code string) bool {
	_, ok := t.index[code]
	return ok
}

// Len returns the number of codes
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the table in published order
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Search returns entries whose code or description contains q (case-insensitive)
func (t *Table) Search(q string) []Entry {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return t.Entries()
	}
	var out []Entry
	for _, e := range t.entries {
		if strings.Contains(strings.ToLower(e.Code), q) || strings.Contains(strings.ToLower(e.Description), q) {
			out = append(out, e)
		}
	}
	return out
}

var registry = map[string]*Table{}

func register(t *Table) *Table {
	registry[t.name] = t
	return t
}

// Get returns a table by name
func Get(name string) (*Table, bool) {
	t, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Names lists the registered tables, sorted
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
