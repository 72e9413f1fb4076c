// Package matching implementa la comparación de razones sociales usada para
// identificar proveedores cuando el CUIT no alcanza.
package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName descompone (NFD), quita marcas diacríticas, pasa a mayúsculas y deja
// un único espacio entre palabras.
// "Distribuidora  Ñandú S.A." -> "DISTRIBUIDORA NANDU S.A."
func NormalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.Join(strings.Fields(out), " "))
}

// Tokens separa el nombre normalizado por espacios.
func Tokens(s string) []string {
	return strings.Fields(NormalizeName(s))
}
