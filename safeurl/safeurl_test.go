package safeurl

import (
	"errors"
	"strings"
	"testing"
)

func TestIsWebPage(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/page", true},
		{"http://example.com", true},
		{"HTTPS://EXAMPLE.COM", true},
		{"chrome://settings", false},
		{"about:blank", false},
		{"file:///etc/passwd", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsWebPage(tt.url); got != tt.want {
			t.Errorf("IsWebPage(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestValidate_Scheme(t *testing.T) {
	for _, u := range []string{"ftp://example.com", "chrome://settings", "javascript:alert(1)"} {
		if err := Validate(u); !errors.Is(err, ErrUnsafeScheme) {
			t.Errorf("Validate(%q) = %v, want ErrUnsafeScheme", u, err)
		}
	}
}

func TestValidate_PrivateAddress(t *testing.T) {
	for _, u := range []string{"http://127.0.0.1/admin", "http://10.0.0.5", "http://192.168.1.1", "http://0.0.0.0"} {
		if err := Validate(u); !errors.Is(err, ErrPrivateAddress) {
			t.Errorf("Validate(%q) = %v, want ErrPrivateAddress", u, err)
		}
	}
}

func TestLimitedReadAll(t *testing.T) {
	data, err := LimitedReadAll(strings.NewReader("hello"), 10)
	if err != nil || string(data) != "hello" {
		t.Fatalf("got %q, %v", data, err)
	}

	if _, err := LimitedReadAll(strings.NewReader("hello world"), 5); !errors.Is(err, ErrResponseTooLarge) {
		t.Fatalf("got %v, want ErrResponseTooLarge", err)
	}
}
