package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, doc string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &v))
	return v
}

func TestValidateHosted(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name   string
		doc    string
		hosted bool
	}{
		{
			name:   "minimal export",
			doc:    `{"name":"x","distribution":"rhel-9"}`,
			hosted: true,
		},
		{
			name:   "export with requests",
			doc:    `{"name":"x","distribution":"rhel-9","customizations":{},"metadata":{"parent_id":null,"exported_at":"2024-01-01","is_on_prem":false},"image_requests":[{"architecture":"x86_64","image_type":"aws","upload_request":{"type":"aws","options":{}}}]}`,
			hosted: true,
		},
		{
			name:   "null description",
			doc:    `{"name":"x","description":null,"distribution":"rhel-9"}`,
			hosted: true,
		},
		{
			name: "missing distribution",
			doc:  `{"name":"x","packages":[{"name":"vim"}]}`,
		},
		{
			name: "empty distribution",
			doc:  `{"name":"x","distribution":""}`,
		},
		{
			name: "image requests not an array",
			doc:  `{"name":"x","distribution":"rhel-9","image_requests":{"image_type":"aws"}}`,
		},
		{
			name: "request without image type",
			doc:  `{"name":"x","distribution":"rhel-9","image_requests":[{"architecture":"x86_64"}]}`,
		},
		{
			name: "not an object",
			doc:  `[1,2,3]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hosted, v.IsHosted(decode(t, tt.doc)))
		})
	}
}

func TestNewValidatorFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type: object\nrequired: [name]\n"), 0o644))

	v, err := NewValidatorFromFile(path)
	require.NoError(t, err)

	assert.True(t, v.IsHosted(decode(t, `{"name":"x"}`)))
	assert.False(t, v.IsHosted(decode(t, `{"distribution":"rhel-9"}`)))
}

func TestNewValidatorFromFileMissing(t *testing.T) {
	_, err := NewValidatorFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNilValidator(t *testing.T) {
	var v *Validator
	assert.Error(t, v.ValidateHosted(map[string]interface{}{}))
}
