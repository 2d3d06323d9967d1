// Package currency holds the static country and currency tables the
// platform localizes prices with.
//
// A Catalog is built once at startup and only read afterwards, so it is
// safe to share between request handlers without locking.
package currency

import (
	"sort"
	"strings"

	"github.com/amirasaad/learnhub/pkg/money"
)

// DefaultCurrency is used for countries the catalog has no mapping for.
const DefaultCurrency = money.USD

// Meta describes how a currency is shown to students.
type Meta struct {
	Code   money.Code
	Symbol string
	Name   string
}

// Catalog is an immutable view over the country and currency tables.
type Catalog struct {
	countries  map[string]money.Code
	currencies map[money.Code]Meta
	supported  []money.Code
}

// NewCatalog returns the catalog with the built-in tables.
func NewCatalog() *Catalog {
	return newCatalog(countryCurrency, currencyMeta)
}

func newCatalog(countries map[string]money.Code, metas []Meta) *Catalog {
	c := &Catalog{
		countries:  make(map[string]money.Code, len(countries)),
		currencies: make(map[money.Code]Meta, len(metas)),
	}
	for country, code := range countries {
		c.countries[country] = code
	}
	for _, m := range metas {
		c.currencies[m.Code] = m
		c.supported = append(c.supported, m.Code)
	}
	sort.Slice(c.supported, func(i, j int) bool { return c.supported[i] < c.supported[j] })
	return c
}

// CurrencyForCountry maps an ISO 3166-1 alpha-2 code to its currency.
// Unmapped countries get DefaultCurrency.
func (c *Catalog) CurrencyForCountry(country string) money.Code {
	if code, ok := c.countries[strings.ToUpper(strings.TrimSpace(country))]; ok {
		return code
	}
	return DefaultCurrency
}

// Symbol returns the display symbol, or the code itself when unknown.
func (c *Catalog) Symbol(code money.Code) string {
	if m, ok := c.currencies[code]; ok && m.Symbol != "" {
		return m.Symbol
	}
	return code.String()
}

// DisplayName returns the display name, or the code itself when unknown.
func (c *Catalog) DisplayName(code money.Code) string {
	if m, ok := c.currencies[code]; ok && m.Name != "" {
		return m.Name
	}
	return code.String()
}

// IsSupported reports whether prices can be shown in the given currency.
func (c *Catalog) IsSupported(code money.Code) bool {
	_, ok := c.currencies[code]
	return ok
}

// Supported lists the supported currencies sorted by code.
func (c *Catalog) Supported() []Meta {
	out := make([]Meta, 0, len(c.supported))
	for _, code := range c.supported {
		out = append(out, c.currencies[code])
	}
	return out
}
