package leveled

import (
	"fmt"
	"strings"
)

// nullText is what a nil argument renders as.
const nullText = "(null)"

// Format renders a message template.
//
// Named holes such as {Method} are filled positionally from args, so the
// names only document the value. "{{" and "}}" produce literal braces. A hole
// without a matching argument is kept verbatim and surplus arguments are
// ignored.
//
//	Format("Sending request: {Method} {Uri}", "GET", "https://example.com")
//	// "Sending request: GET https://example.com"
func Format(template string, args ...any) string {
	if !strings.ContainsAny(template, "{}") {
		return template
	}

	var b strings.Builder
	b.Grow(len(template) + 16*len(args))

	next := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				b.WriteString(template[i:])
				return b.String()
			}
			hole := template[i : i+end+2]
			if next < len(args) {
				b.WriteString(render(args[next]))
				next++
			} else {
				b.WriteString(hole)
			}
			i += end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func render(v any) string {
	if v == nil {
		return nullText
	}
	return fmt.Sprint(v)
}
