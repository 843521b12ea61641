package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ecommerce-api/internal/infrastructure/sanitize"
)

func TestHTMLSanitizer(t *testing.T) {
	s := sanitize.NewHTMLSanitizer()

	cases := []struct {
		name, in, want string
	}{
		{"texto plano", "  Camiseta de algodón  ", "Camiseta de algodón"},
		{"formato básico", "<p>Hola <strong>mundo</strong></p>", "<p>Hola <strong>mundo</strong></p>"},
		{"script", `<p>ok</p><script>alert(1)</script>`, "<p>ok</p>"},
		{"handler", `<img src="x.png" onerror="alert(1)">`, `<img src="x.png">`},
		{"vacío", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Sanitize(tc.in))
		})
	}
}

func TestHTMLSanitizer_EnlacesNoFollow(t *testing.T) {
	out := sanitize.NewHTMLSanitizer().Sanitize(`<a href="https://example.com">x</a>`)
	assert.Contains(t, out, `rel="nofollow noopener"`)
	assert.Contains(t, out, `target="_blank"`)
}

func TestStrictSanitizer(t *testing.T) {
	assert.Equal(t, "Hola mundo", sanitize.NewStrictSanitizer().Sanitize("<b>Hola</b> mundo"))
}
