// Package naming derives accessor method names from member names.
package naming

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Camel converts a member name to CamelCase: the name is lowercased, every
// character following an underscore is uppercased (dropping the underscore), and
// the first character is uppercased.
//
//	Camel("first_name") == "FirstName"
//	Camel("URL")        == "Url"
func Camel(name string) string {
	// Casers keep state between calls, so each call gets its own.
	lower := cases.Lower(language.Und)
	upper := cases.Upper(language.Und)

	runes := []rune(lower.String(name))
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(runes); i++ {
		if runes[i] == '_' && i+1 < len(runes) {
			b.WriteString(upper.String(string(runes[i+1])))
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return upperFirst(b.String(), upper)
}

// Accessors returns the getter and setter names for a member. Boolean members
// get an "is" getter; a boolean member whose camel-cased name already starts
// with "Is" reuses that name with a lowercased first letter.
func Accessors(name string, boolean bool) (getter, setter string) {
	camel := Camel(name)
	setter = "set" + camel
	switch {
	case boolean && strings.HasPrefix(camel, "Is"):
		getter = "i" + camel[1:]
	case boolean:
		getter = "is" + camel
	default:
		getter = "get" + camel
	}
	return getter, setter
}

func upperFirst(s string, upper cases.Caser) string {
	for i, r := range s {
		return upper.String(string(r)) + s[i+len(string(r)):]
	}
	return s
}
