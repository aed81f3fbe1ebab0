package config

import (
	"errors"
	"fmt"
	"sort"
	"unicode"

	"github.com/wesleyorama2/httpmaster/http"
)

// namedRanges are the range names accepted besides unicode.Scripts,
// unicode.Categories and unicode.Properties.
var namedRanges = map[string]*unicode.RangeTable{
	"BasicLatin":    http.BasicLatin,
	"CyrillicBlock": http.CyrillicBlock,
}

// ResolveRange returns the range table registered under name.
func ResolveRange(name string) (*unicode.RangeTable, error) {
	if t, ok := namedRanges[name]; ok {
		return t, nil
	}
	if t, ok := unicode.Scripts[name]; ok {
		return t, nil
	}
	if t, ok := unicode.Categories[name]; ok {
		return t, nil
	}
	if t, ok := unicode.Properties[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown unicode range %q", name)
}

// Serializer builds the serializer the profile describes. Each settings
// block is applied while its own backend is active, then the selected
// backend is switched on.
func (p *Profile) Serializer() (*http.Serializer, error) {
	kind, err := http.ParseKind(p.Serializer)
	if err != nil {
		return nil, err
	}

	s := http.NewSerializer()
	if p.Standard != nil {
		settings := http.DefaultStandardSettings()
		if p.Standard.EscapeHTML != nil {
			settings.EscapeHTML = *p.Standard.EscapeHTML
		}
		settings.Indent = p.Standard.Indent
		settings.DisallowUnknownFields = p.Standard.DisallowUnknownFields
		settings.UseNumber = p.Standard.UseNumber
		settings.FailOnCycle = p.Standard.FailOnCycle
		s.SetKind(http.KindStandard).SetStandardSettings(settings)
	}

	if p.V2 != nil {
		settings := http.V2Settings{
			EscapeHTML:           p.V2.EscapeHTML,
			RejectUnknownMembers: p.V2.RejectUnknownMembers,
			Deterministic:        p.V2.Deterministic,
			Indent:               p.V2.Indent,
		}
		for _, name := range p.V2.AllowedRanges {
			table, err := ResolveRange(name)
			if err != nil {
				return nil, err
			}
			settings.AllowedRanges = append(settings.AllowedRanges, table)
		}
		s.SetKind(http.KindV2).SetV2Settings(settings)
	}

	return s.SetKind(kind), nil
}

// ResolvedHeaders returns the configured headers with {{variables}}
// substituted.
func (p *Profile) ResolvedHeaders() []http.Header {
	headers := make([]http.Header, 0, len(p.Headers))
	for _, h := range p.Headers {
		headers = append(headers, http.NewHeader(h.Name, ProcessEnvironment(h.Value, p.Variables)))
	}
	return headers
}

// Apply validates the profile and configures c from it. Headers are
// appended to those already on the client. Nothing is changed when the
// profile is invalid.
func (p *Profile) Apply(c *http.Client) error {
	if errs := ValidateProfile(p); len(errs) > 0 {
		joined := make([]error, 0, len(errs))
		for _, e := range errs {
			joined = append(joined, e)
		}
		return fmt.Errorf("invalid profile: %w", errors.Join(joined...))
	}

	serializer, err := p.Serializer()
	if err != nil {
		return err
	}
	timeout, err := ParseDurationString(p.Timeout)
	if err != nil {
		return err
	}

	if p.Timeout != "" {
		c.SetTimeout(timeout)
	}
	c.SetSerializer(serializer)
	c.AddHeaders(p.ResolvedHeaders()...)
	if p.Logging {
		c.EnableLogging()
	}
	return nil
}

// NewClient creates a client with opts and then applies the profile.
func (p *Profile) NewClient(opts ...http.ClientOption) (*http.Client, error) {
	c := http.NewClient(opts...)
	if err := p.Apply(c); err != nil {
		return nil, err
	}
	return c, nil
}

// RangeNames lists the extra range names accepted by ResolveRange.
func RangeNames() []string {
	names := make([]string, 0, len(namedRanges))
	for name := range namedRanges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
