package matching

import "strings"

// EscapeLike escapa los metacaracteres de LIKE (%, _ y la barra de escape).
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Like evalúa value LIKE pattern con la semántica de SQL: % cualquier secuencia,
// _ un carácter y \ como escape. La comparación es exacta; los llamadores normalizan antes.
func Like(value, pattern string) bool {
	v := []rune(value)
	p := []rune(pattern)

	// vi/pi posiciones actuales; starP/starV último % visto para retroceder.
	vi, pi := 0, 0
	starP, starV := -1, 0
	for vi < len(v) {
		if pi < len(p) {
			switch c := p[pi]; {
			case c == '%':
				starP, starV = pi, vi
				pi++
				continue
			case c == '_':
				vi++
				pi++
				continue
			case c == '\\' && pi+1 < len(p):
				if p[pi+1] == v[vi] {
					vi++
					pi += 2
					continue
				}
			default:
				if c == v[vi] {
					vi++
					pi++
					continue
				}
			}
		}
		if starP < 0 {
			return false
		}
		starV++
		vi = starV
		pi = starP + 1
	}
	for pi < len(p) && p[pi] == '%' {
		pi++
	}
	return pi == len(p)
}
