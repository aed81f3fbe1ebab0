package http

import (
	"bytes"
	"fmt"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/unicode/rangetable"
)

var (
	// BasicLatin covers U+0000 to U+007F.
	BasicLatin = &unicode.RangeTable{
		R16:         []unicode.Range16{{Lo: 0x0000, Hi: 0x007f, Stride: 1}},
		LatinOffset: 1,
	}

	// CyrillicBlock covers the Cyrillic block, U+0400 to U+04FF.
	CyrillicBlock = &unicode.RangeTable{
		R16: []unicode.Range16{{Lo: 0x0400, Hi: 0x04ff, Stride: 1}},
	}
)

// DefaultAllowedRanges returns the ranges the v2 backend writes verbatim
// unless configured otherwise.
func DefaultAllowedRanges() []*unicode.RangeTable {
	return []*unicode.RangeTable{BasicLatin, CyrillicBlock}
}

func mergeRanges(tables []*unicode.RangeTable) *unicode.RangeTable {
	nonNil := make([]*unicode.RangeTable, 0, len(tables))
	for _, t := range tables {
		if t != nil {
			nonNil = append(nonNil, t)
		}
	}
	return rangetable.Merge(nonNil...)
}

// escapeOutside rewrites every non-ASCII rune that is not in allowed as a
// JSON \u escape. Encoded JSON only carries non-ASCII runes inside strings,
// so the rewrite never touches structure. ASCII is always kept.
func escapeOutside(data []byte, allowed *unicode.RangeTable) []byte {
	i := 0
	for i < len(data) && data[i] < utf8.RuneSelf {
		i++
	}
	if i == len(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + 16)
	buf.Write(data[:i])

	for i < len(data) {
		r, size := utf8.DecodeRune(data[i:])
		switch {
		case r < utf8.RuneSelf, allowed != nil && unicode.Is(allowed, r):
			buf.Write(data[i : i+size])
		case r > 0xffff:
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&buf, `\u%04x\u%04x`, r1, r2)
		default:
			fmt.Fprintf(&buf, `\u%04x`, r)
		}
		i += size
	}
	return buf.Bytes()
}
