package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinRoute(t *testing.T) {
	tests := []struct {
		base, suffix, want string
	}{
		{"/api/v1/", "do/something", "/api/v1/do/something"},
		{"/api/v1", "do/something", "/api/v1/do/something"},
		{"/api/v1/", "/files", "/api/v1/files"},
		{"/", "", "/"},
		{"", "x", "/x"},
		{"api", ":id", "/api/:id"},
		{"/api/v1/", "", "/api/v1/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinRoute(tt.base, tt.suffix), "%q + %q", tt.base, tt.suffix)
	}
}

func TestActivatedBy(t *testing.T) {
	always := ServiceDefinition{}
	assert.True(t, always.ActivatedBy(nil))

	ab := ServiceDefinition{Profiles: []Profile{ProfileA, ProfileB}}
	assert.False(t, ab.ActivatedBy([]Profile{ProfileA}))
	assert.True(t, ab.ActivatedBy([]Profile{ProfileB, ProfileA, "c"}))
}
