// Package sanitize limpia HTML proveniente de usuarios (descripciones, valores de configuración).
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/jhoicas/ecommerce-api/internal/application/ports"
)

// HTMLSanitizer implementa ports.TextSanitizer con la política UGC de bluemonday.
// Permite formato básico (párrafos, listas, enlaces) y elimina scripts, estilos y handlers.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

var _ ports.TextSanitizer = (*HTMLSanitizer)(nil)

// NewHTMLSanitizer construye el sanitizador. Los enlaces salen con rel="nofollow noopener" y target _blank.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return &HTMLSanitizer{policy: policy}
}

// NewStrictSanitizer elimina todo el HTML y deja solo texto.
func NewStrictSanitizer() *HTMLSanitizer {
	return &HTMLSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize aplica la política y recorta espacios.
func (s *HTMLSanitizer) Sanitize(in string) string {
	if in == "" {
		return ""
	}
	return strings.TrimSpace(s.policy.Sanitize(in))
}
