package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstanceKey(t *testing.T) {
	tests := []struct {
		name     string
		instance Instance
		addr     string
		key      string
	}{
		{"ipv4", Instance{Name: "storefront", Host: "10.0.0.4", Port: "8080"}, "10.0.0.4:8080", "/services/storefront/10.0.0.4:8080"},
		{"ipv6", Instance{Name: "storefront", Host: "::1", Port: "9090"}, "[::1]:9090", "/services/storefront/[::1]:9090"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.addr, tt.instance.Addr())
			assert.Equal(t, tt.key, tt.instance.Key())
		})
	}
}
