package assemble

import (
	"strings"

	"bennypowers.dev/sfcgen/internal/collections"
	"bennypowers.dev/sfcgen/internal/sfc"
)

// reservedQueryNames are protocol parameters never echoed from attributes
var reservedQueryNames = collections.NewSet(
	"id", "index", "src", "type", "lang", "module", "scoped", "generic",
)

// AttrsToQuery encodes region attributes as a virtual module query suffix.
// Attributes are appended in declaration order, reserved names skipped, and
// a trailing `&lang.<ext>` names the region's language: the declared lang
// unless forceLangFallback is set, otherwise langFallback.
func AttrsToQuery(attrs []sfc.Attr, langFallback string, forceLangFallback bool) string {
	var sb strings.Builder
	var lang string
	hasLang := false
	for _, a := range attrs {
		if a.Name == "lang" {
			hasLang = true
			lang = a.Value
		}
		if reservedQueryNames.Has(a.Name) {
			continue
		}
		sb.WriteString("&")
		sb.WriteString(encodeURIComponent(a.Name))
		if a.HasValue && a.Value != "" {
			sb.WriteString("=")
			sb.WriteString(encodeURIComponent(a.Value))
		}
	}

	switch {
	case hasLang && !forceLangFallback && lang != "":
		sb.WriteString("&lang.")
		sb.WriteString(lang)
	case langFallback != "":
		sb.WriteString("&lang.")
		sb.WriteString(langFallback)
	}
	return sb.String()
}

const upperhex = "0123456789ABCDEF"

// encodeURIComponent percent-encodes every byte except the unreserved marks
// of ECMAScript's encodeURIComponent
func encodeURIComponent(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
