// Package cuit normaliza y valida identificadores tributarios argentinos (CUIT/CUIL).
package cuit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLength = errors.New("cuit: debe tener 11 dígitos")
	ErrDigits = errors.New("cuit: contiene caracteres no numéricos")
	ErrPrefix = errors.New("cuit: prefijo inválido")
)

// prefijos admitidos: personas físicas (20, 23, 27) y jurídicas (30, 33).
var validPrefixes = map[string]struct{}{
	"20": {}, "23": {}, "27": {}, "30": {}, "33": {},
}

// Clean quita guiones y espacios. "30-71513909-6" -> "30715139096".
func Clean(s string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(s)
}

// Validate limpia el identificador y devuelve la forma limpia si es válida.
// Los errores envuelven ErrLength, ErrDigits o ErrPrefix.
func Validate(s string) (string, error) {
	c := Clean(s)
	if len(c) != 11 {
		return "", fmt.Errorf("%w: %q tiene %d", ErrLength, s, len(c))
	}
	for i := 0; i < len(c); i++ {
		if c[i] < '0' || c[i] > '9' {
			return "", fmt.Errorf("%w: %q", ErrDigits, s)
		}
	}
	if _, ok := validPrefixes[c[:2]]; !ok {
		return "", fmt.Errorf("%w: %s", ErrPrefix, c[:2])
	}
	return c, nil
}

// IsValid es Validate sin el detalle del error.
func IsValid(s string) bool {
	_, err := Validate(s)
	return err == nil
}

// IsOwn indica si el identificador pertenece a la empresa receptora.
// La comparación se hace sobre formas limpias, así "30-54340071-3" coincide con "30543400713".
func IsOwn(s string, own []string) bool {
	c := Clean(s)
	if c == "" {
		return false
	}
	for _, o := range own {
		if Clean(o) == c {
			return true
		}
	}
	return false
}
