package instrument

import (
	"fmt"
	"sort"
	"strings"
)

// Instrument describes one tracked financial instrument. Key is the
// canonical identifier used by every stage and every persisted row; all
// other fields are aliases under which external feeds know the instrument.
type Instrument struct {
	Key         string // canonical slug, e.g. "gold", "eur-usd"
	Keyword     string // news search keyword, e.g. "XAUUSD"
	QuoteSymbol string // generic quote feed ticker, e.g. "BTC-USD"
	MetalCode   string // specialized metals feed code, empty for non-metals
	DisplayName string
}

// Aliases returns every non-empty external name of the instrument.
func (i Instrument) Aliases() []string {
	out := []string{}
	for _, a := range []string{i.Keyword, i.QuoteSymbol, i.MetalCode, i.DisplayName} {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Catalog maps every known alias to exactly one canonical key. It is built
// once per run and never mutated afterwards.
type Catalog struct {
	instruments []Instrument
	byKey       map[string]Instrument
	byAlias     map[string]string
}

// NewCatalog builds a catalog and verifies that alias resolution is total
// and unambiguous: the same alias claimed by two instruments is an error.
func NewCatalog(list []Instrument) (*Catalog, error) {
	c := &Catalog{
		instruments: make([]Instrument, len(list)),
		byKey:       make(map[string]Instrument, len(list)),
		byAlias:     make(map[string]string),
	}
	copy(c.instruments, list)

	for _, inst := range list {
		key := Slug(inst.Key)
		if key == "" {
			return nil, fmt.Errorf("instrument with empty key (display name %q)", inst.DisplayName)
		}
		if _, dup := c.byKey[key]; dup {
			return nil, fmt.Errorf("duplicate instrument key %q", key)
		}
		inst.Key = key
		c.byKey[key] = inst

		// The canonical key resolves to itself.
		aliases := append([]string{key}, inst.Aliases()...)
		for _, alias := range aliases {
			norm := normalizeAlias(alias)
			if owner, ok := c.byAlias[norm]; ok && owner != key {
				return nil, fmt.Errorf("alias %q is ambiguous: claimed by %q and %q", alias, owner, key)
			}
			c.byAlias[norm] = key
		}
	}
	return c, nil
}

// Resolve maps any alias (or canonical key) to the canonical key.
func (c *Catalog) Resolve(alias string) (string, bool) {
	key, ok := c.byAlias[normalizeAlias(alias)]
	return key, ok
}

// Get returns the instrument for a canonical key.
func (c *Catalog) Get(key string) (Instrument, bool) {
	inst, ok := c.byKey[Slug(key)]
	return inst, ok
}

// Keys returns all canonical keys in stable sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.byKey))
	for k := range c.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Instruments returns the catalog entries in declaration order.
func (c *Catalog) Instruments() []Instrument {
	out := make([]Instrument, 0, len(c.instruments))
	for _, inst := range c.instruments {
		if resolved, ok := c.byKey[Slug(inst.Key)]; ok {
			out = append(out, resolved)
		}
	}
	return out
}

// Slug canonicalizes an instrument name: lowercase, "/" and spaces become
// "-". "EUR/USD" and "Dow Jones" become "eur-usd" and "dow-jones".
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.Join(strings.Fields(s), "-")
	return s
}

func normalizeAlias(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}

// Defaults returns the built-in tracked universe. Config may replace it.
func Defaults() []Instrument {
	return []Instrument{
		{Key: "gold", Keyword: "XAUUSD", QuoteSymbol: "XAUUSD=X", MetalCode: "USDXAU", DisplayName: "Gold"},
		{Key: "bitcoin", Keyword: "BTC", QuoteSymbol: "BTC-USD", DisplayName: "Bitcoin"},
		{Key: "ethereum", Keyword: "ETH", QuoteSymbol: "ETH-USD", DisplayName: "Ethereum"},
		{Key: "dow-jones", Keyword: "DJI", QuoteSymbol: "^DJI", DisplayName: "Dow Jones"},
		{Key: "nasdaq", Keyword: "IXIC", QuoteSymbol: "^IXIC", DisplayName: "Nasdaq"},
		{Key: "eur-usd", Keyword: "EURUSD", QuoteSymbol: "EURUSD=X", DisplayName: "EUR/USD"},
		{Key: "gbp-usd", Keyword: "GBPUSD", QuoteSymbol: "GBPUSD=X", DisplayName: "GBP/USD"},
	}
}

// DefaultCatalog builds the catalog over Defaults. The default universe is
// known consistent, so this never fails.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(Defaults())
	if err != nil {
		panic(err)
	}
	return c
}
