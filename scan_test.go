// File: lixenwraith/bind/scan_test.go
package bind

import (
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanSection(t *testing.T) {
	type RetryConfig struct {
		MaxAttempts int           `cfg:"MaxAttempts"`
		Timeout     time.Duration `cfg:"Timeout"`
	}

	tree := NewTree(map[string]any{
		"Retry": map[string]any{
			"MaxAttempts": "5",
			"Timeout":     "30s",
		},
		"Other": map[string]any{"Ignored": "x"},
	})

	var retry RetryConfig
	require.NoError(t, Scan(tree, "Retry", &retry))

	assert.Equal(t, 5, retry.MaxAttempts)
	assert.Equal(t, 30*time.Second, retry.Timeout)
}

func TestScanComplexTypes(t *testing.T) {
	type NetworkConfig struct {
		IP       net.IP        `cfg:"ip"`
		Subnet   *net.IPNet    `cfg:"subnet"`
		Endpoint *url.URL      `cfg:"endpoint"`
		Timeout  time.Duration `cfg:"timeout"`
	}

	type AppConfig struct {
		Network NetworkConfig `cfg:"network"`
		Tags    []string      `cfg:"tags"`
		Ports   []int         `cfg:"ports"`
		ID      uuid.UUID     `cfg:"id"`
	}

	tree := NewTree(map[string]any{
		"network": map[string]any{
			"ip":       "192.168.1.100",
			"subnet":   "192.168.1.0/24",
			"endpoint": "https://api.example.com:8443/v1",
			"timeout":  "2m30s",
		},
		"tags":  []any{"prod", "staging"},
		"ports": []any{"80", "443"},
		"id":    "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
	})

	var result AppConfig
	require.NoError(t, Scan(tree, "", &result))

	assert.Equal(t, "192.168.1.100", result.Network.IP.String())
	require.NotNil(t, result.Network.Subnet)
	assert.Equal(t, "192.168.1.0/24", result.Network.Subnet.String())
	require.NotNil(t, result.Network.Endpoint)
	assert.Equal(t, "https://api.example.com:8443/v1", result.Network.Endpoint.String())
	assert.Equal(t, 150*time.Second, result.Network.Timeout)
	assert.Equal(t, []string{"prod", "staging"}, result.Tags)
	assert.Equal(t, []int{80, 443}, result.Ports)
	assert.Equal(t, uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), result.ID)
}

func TestScanCommaSeparatedSlice(t *testing.T) {
	type Config struct {
		Tags []string `cfg:"tags"`
	}

	tree := NewTree(nil)
	tree.Set("tags", "a,b,c")

	var result Config
	require.NoError(t, Scan(tree, "", &result))
	assert.Equal(t, []string{"a", "b", "c"}, result.Tags)
}

func TestScanMissingSection(t *testing.T) {
	type Config struct {
		Value string `cfg:"value"`
	}

	tree := NewTree(nil)

	var result Config
	require.NoError(t, Scan(tree, "nope", &result))
	assert.Equal(t, "", result.Value)
}

func TestScanInvalidTargets(t *testing.T) {
	tree := NewTree(nil)

	tests := []struct {
		name   string
		target any
	}{
		{"Nil", nil},
		{"NonPointer", struct{}{}},
		{"NilStructPointer", (*struct{})(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Scan(tree, "", tt.target)
			assert.ErrorContains(t, err, "non-nil pointer")
		})
	}
}

func TestScanScalarBasePath(t *testing.T) {
	tree := NewTree(map[string]any{"leaf": "value"})

	var result struct{}
	err := Scan(tree, "leaf", &result)
	assert.ErrorContains(t, err, "scannable section")
}

func TestScanCoercionFailureSurfaces(t *testing.T) {
	type Config struct {
		IP net.IP `cfg:"ip"`
	}

	tree := NewTree(nil)
	tree.Set("ip", "not-an-ip")

	var result Config
	err := Scan(tree, "", &result)
	assert.ErrorContains(t, err, "invalid IP address")
}
