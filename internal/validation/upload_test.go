package validation

import "testing"

func TestValidateImageUpload(t *testing.T) {
	if err := ValidateImageUpload("image/jpeg", 1024); err != nil {
		t.Errorf("Expected jpeg upload to pass, got %v", err)
	}

	if err := ValidateImageUpload("image/png", 0); err == nil {
		t.Error("Expected error for empty file")
	}

	if err := ValidateImageUpload("image/png", MaxImageBytes+1); err == nil {
		t.Error("Expected error for oversized file")
	}

	if err := ValidateImageUpload("text/html", 1024); err == nil {
		t.Error("Expected error for non-image content type")
	}
}

func TestIsImageContentType(t *testing.T) {
	cases := []struct {
		ct   string
		want bool
	}{
		{"image/jpeg", true},
		{"image/png; charset=binary", true},
		{"IMAGE/JPEG", true},
		{"application/octet-stream", true},
		{"", true}, // clientes móviles sin content type
		{"application/json", false},
		{"text/plain", false},
	}
	for _, c := range cases {
		if got := IsImageContentType(c.ct); got != c.want {
			t.Errorf("IsImageContentType(%q) = %v, want %v", c.ct, got, c.want)
		}
	}
}
