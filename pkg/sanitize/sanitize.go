// Package sanitize repairs text that was UTF-8 encoded, decoded as
// Windows-1252 and encoded again, the usual source of "â€™" and "ðŸ˜€"
// in stored templates and chat output.
package sanitize

import (
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// artifacts are leftovers that survive byte-level repair, usually because
// part of the original sequence was lost.
var artifacts = strings.NewReplacer(
	"â€", `"`,
	"\ufeff", "",
)

// Clean repairs mis-decoded UTF-8 and returns ASCII only if the result is
// still not valid UTF-8. Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	for {
		next := artifacts.Replace(repairMojibake(joinSurrogates(s)))
		if next == s {
			break
		}
		s = next
	}

	if !utf8.ValidString(s) {
		return stripNonASCII(s)
	}
	return s
}

// ReadDocument loads a text file for parsing: the BOM is dropped, bytes that
// are not UTF-8 are read as Windows-1252, and the result is cleaned.
func ReadDocument(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw = []byte(strings.TrimPrefix(string(raw), "\ufeff"))
	if !utf8.Valid(raw) {
		if decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw); err == nil {
			raw = decoded
		}
	}
	return []byte(Clean(string(raw))), nil
}

func stripNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < utf8.RuneSelf {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// joinSurrogates rewrites CESU-8 surrogate pairs (ED A0-AF xx ED B0-BF xx)
// as the four-byte UTF-8 form.
func joinSurrogates(s string) string {
	if !strings.Contains(s, "\xed") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if i+6 <= len(s) && s[i] == 0xED && s[i+1]&0xF0 == 0xA0 && isCont(s[i+2]) &&
			s[i+3] == 0xED && s[i+4]&0xF0 == 0xB0 && isCont(s[i+5]) {
			hi := 0xD000 | rune(s[i+1]&0x3F)<<6 | rune(s[i+2]&0x3F)
			lo := 0xD000 | rune(s[i+4]&0x3F)<<6 | rune(s[i+5]&0x3F)
			b.WriteRune(0x10000 + (hi-0xD800)<<10 + (lo - 0xDC00))
			i += 6
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func isCont(c byte) bool { return c&0xC0 == 0x80 }

// singleByte maps a rune back to the Windows-1252 byte it was decoded from.
// C1 controls come from the undefined slots and map to themselves.
func singleByte(r rune) (byte, bool) {
	if r >= 0x80 && r <= 0x9F {
		return byte(r), true
	}
	if r < utf8.RuneSelf || r == utf8.RuneError {
		return 0, false
	}
	return charmap.Windows1252.EncodeRune(r)
}

// mojibakeLead reports whether c starts a sequence that shows up as
// mojibake: Â and Ã for Latin-1, Å for Œ Š Ž, â for punctuation and ð for
// emoji. Other leads are left alone so text like "CAFÉ…" survives.
func mojibakeLead(c byte) bool {
	switch c {
	case 0xC2, 0xC3, 0xC5, 0xE2, 0xF0:
		return true
	}
	return false
}

// repairMojibake finds maximal runs of runes that each map back to one
// Windows-1252 byte and re-decodes every complete UTF-8 sequence inside the
// run that starts with a mojibake lead. Everything else keeps its rune.
func repairMojibake(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var runes []rune
	var bytes []byte
	flush := func() {
		for i := 0; i < len(bytes); {
			if mojibakeLead(bytes[i]) {
				r, size := utf8.DecodeRune(bytes[i:])
				if r != utf8.RuneError && size > 1 {
					b.WriteRune(r)
					i += size
					continue
				}
			}
			b.WriteRune(runes[i])
			i++
		}
		runes = runes[:0]
		bytes = bytes[:0]
	}

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if c, ok := singleByte(r); ok && size > 1 {
			runes = append(runes, r)
			bytes = append(bytes, c)
			i += size
			continue
		}
		flush()
		b.WriteString(s[i : i+size])
		i += size
	}
	flush()

	return b.String()
}
