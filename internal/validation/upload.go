package validation

import (
	"fmt"
	"strings"
)

// MaxImageBytes limita el tamaño del upload (el modelo trabaja con 160x160,
// no tiene sentido aceptar archivos gigantes)
const MaxImageBytes = 10 << 20 // 10 MB

// UploadError representa un error de validación del archivo subido
type UploadError struct {
	Field   string
	Message string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateImageUpload valida el archivo de imagen recibido por multipart.
func ValidateImageUpload(contentType string, size int64) error {
	if size == 0 {
		return &UploadError{
			Field:   "image",
			Message: "archivo vacío",
		}
	}

	if size > MaxImageBytes {
		return &UploadError{
			Field:   "image",
			Message: fmt.Sprintf("archivo demasiado grande (máximo %d bytes)", int64(MaxImageBytes)),
		}
	}

	if !IsImageContentType(contentType) {
		return &UploadError{
			Field:   "image",
			Message: fmt.Sprintf("content type no soportado: %q", contentType),
		}
	}

	return nil
}

// IsImageContentType verifica que el content type sea una imagen.
// Octet-stream se acepta porque varios clientes móviles no setean el tipo.
func IsImageContentType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return strings.HasPrefix(ct, "image/") || ct == "application/octet-stream" || ct == ""
}
