package textutil

import "strings"

// nameReplacer maps characters that cannot appear in one path segment.
var nameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	"\x00", "",
)

// SanitizeName makes title usable as an entity name. Path separators become
// dashes, NUL bytes are dropped, runs of whitespace collapse to one space,
// and leading dots are removed so the entity is not mistaken for a hidden
// staging or trash directory. The result may be empty.
func SanitizeName(title string) string {
	name := nameReplacer.Replace(title)
	name = strings.Join(strings.Fields(name), " ")
	return strings.TrimSpace(strings.TrimLeft(name, "."))
}
