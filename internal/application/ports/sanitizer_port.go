package ports

// TextSanitizer limpia texto libre (HTML de usuario) antes de persistirlo.
type TextSanitizer interface {
	Sanitize(s string) string
}
