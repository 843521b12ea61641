package entity

import "time"

// Setting par clave/valor de configuración del sitio (banner, textos legales, contacto).
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
