package dto

import "time"

// SettingRequest valor de una clave de configuración.
type SettingRequest struct {
	Value string `json:"value"`
}

// SettingResponse salida de una clave de configuración.
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UploadResponse archivo guardado.
type UploadResponse struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}
