// Package textx formats stored lowercase text for display.
package textx

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Title capitalizes each word: "the hobbit" becomes "The Hobbit".
func Title(s string) string {
	return cases.Title(language.English).String(s)
}
