package solution

import (
	"bytes"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// textFormat remembers the byte-level conventions of a parsed document so the
// renderer can reproduce them.
type textFormat struct {
	bom          bool
	crlf         bool
	finalNewline bool
}

// defaultFormat matches what Visual Studio writes.
var defaultFormat = textFormat{bom: true, crlf: true, finalNewline: true}

// decodeText strips the BOM and normalizes line endings to "\n".
func decodeText(raw []byte) (string, textFormat) {
	f := textFormat{}
	if bytes.HasPrefix(raw, utf8BOM) {
		f.bom = true
		raw = raw[len(utf8BOM):]
	}
	text := string(raw)
	if strings.Contains(text, "\r\n") {
		f.crlf = true
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	f.finalNewline = text == "" || strings.HasSuffix(text, "\n")
	return text, f
}

// encode applies the format to canonical "\n"-terminated text.
func (f textFormat) encode(text string) []byte {
	if !f.finalNewline {
		text = strings.TrimSuffix(text, "\n")
	}
	if f.crlf {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	if f.bom {
		return append(append([]byte(nil), utf8BOM...), text...)
	}
	return []byte(text)
}

// splitLines splits "\n"-normalized text. A trailing newline does not
// produce an empty last line.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
