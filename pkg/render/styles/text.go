package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	fontSize     = 12.0
	fontCharW    = 0.6
	textInset    = 8.0
	keyColumnW   = 22.0
	ellipsis     = ".."
	minTextChars = 3
)

// EscapeXML escapes s for use in SVG text and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Truncate shortens s so that it fits into width at the default font size.
func Truncate(s string, width float64) string {
	maxChars := max(minTextChars, int(width/(fontSize*fontCharW)))
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	r := []rune(s)
	return string(r[:maxChars-len(ellipsis)]) + ellipsis
}

// KeyMarker returns the short badge shown before a key column.
func KeyMarker(key string) string {
	switch strings.ToLower(key) {
	case "pk":
		return "PK"
	case "fk":
		return "FK"
	default:
		return ""
	}
}

// ColumnText returns the text of a column row without its key badge.
func ColumnText(c Column) string {
	if c.Type == "" {
		return c.Name
	}
	return c.Name + " : " + c.Type
}

func points(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}
