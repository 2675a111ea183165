// Package naming converts IDL identifiers between the casing styles used in
// generated C++ sources.
//
// IDL names arrive in camelCase ("createMetadataAccount"), but may also use
// snake_case, kebab-case or spaces. All conversions first split a name into
// words, then join them in the target style.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// titler upper-cases the first rune of a word and leaves the rest alone,
// so acronyms such as "ID" survive.
var titler = cases.Title(language.Und, cases.NoLower)

// Words splits name into its words. Separators are '-', '_', '.', '+' and
// whitespace; an upper-case rune also starts a new word.
//
// Input is NFC-normalised first so that visually identical names produce the
// same identifiers.
func Words(name string) []string {
	name = norm.NFC.String(name)

	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range name {
		switch {
		case r == '-' || r == '_' || r == '.' || r == '+' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}

// Title returns "Create Metadata Account".
func Title(name string) string {
	words := Words(name)
	for i, w := range words {
		words[i] = titler.String(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}

// Pascal returns "CreateMetadataAccount".
func Pascal(name string) string {
	return strings.ReplaceAll(Title(name), " ", "")
}

// Camel returns "createMetadataAccount".
func Camel(name string) string {
	p := []rune(Pascal(name))
	if len(p) == 0 {
		return ""
	}
	p[0] = unicode.ToLower(p[0])
	return string(p)
}

// Snake returns "create_metadata_account".
func Snake(name string) string {
	return strings.ToLower(strings.Join(Words(name), "_"))
}

// Kebab returns "create-metadata-account".
func Kebab(name string) string {
	return strings.ToLower(strings.Join(Words(name), "-"))
}

// Constant returns "CREATE_METADATA_ACCOUNT".
func Constant(name string) string {
	return strings.ToUpper(Snake(name))
}
