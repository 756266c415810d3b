package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAppRequestValidate(t *testing.T) {
	valid := RegisterAppRequest{PackageName: "com.example.app", Version: "1.0"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  RegisterAppRequest
	}{
		{"missing package name", RegisterAppRequest{Version: "1.0"}},
		{"blank package name", RegisterAppRequest{PackageName: "   ", Version: "1.0"}},
		{"package name with space", RegisterAppRequest{PackageName: "com example", Version: "1.0"}},
		{"package name with slash", RegisterAppRequest{PackageName: "com/example", Version: "1.0"}},
		{"missing version", RegisterAppRequest{PackageName: "com.example.app"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.req.Validate())
		})
	}
}

func TestNewAppResponse(t *testing.T) {
	app := NewInstalledApp("com.example.app", "1.0", "Example", false)
	app.LatestVersion = "1.1"

	resp := NewAppResponse(app)
	assert.Equal(t, "com.example.app", resp.PackageName)
	assert.Equal(t, "1.1", resp.LatestVersion)
	assert.True(t, resp.UpdateAvailable)
}

func TestHealthCheckResponseComponents(t *testing.T) {
	resp := NewHealthCheckResponse(StatusHealthy)
	resp.AddComponent("storage", StatusHealthy, "Storage is operational")

	require.Contains(t, resp.Components, "storage")
	assert.Equal(t, StatusHealthy, resp.Components["storage"].Status)
	assert.False(t, resp.Timestamp.IsZero())
}
