package leads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifestYAML = `version: "1"
name: crm-pack
package: github.com/example/crm-pack
widgets:
  - definition:
      code: crm.widget.pipeline
      name: Pipeline
      name_localized:
        ru: Воронка продаж
      category: charts
    maintainers:
      - team-crm
    tags:
      - charts
  - definition:
      code: crm.widget.calls
      name: Calls
      category: stats
`

func TestDecodeManifest(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(sampleManifestYAML))
	require.NoError(t, err)

	assert.Equal(t, ManifestVersion, doc.Version)
	assert.Equal(t, "crm-pack", doc.Name)
	require.Len(t, doc.Widgets, 2)
	assert.Equal(t, "crm.widget.pipeline", doc.Widgets[0].Definition.Code)
	assert.Equal(t, []string{"team-crm"}, doc.Widgets[0].Maintainers)
	assert.Equal(t, "Воронка продаж", doc.Widgets[0].Definition.NameLocalized["ru"])
}

func TestDecodeManifestDefaultsVersion(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(`widgets:
  - definition:
      code: crm.widget.calls
      name: Calls
`))
	require.NoError(t, err)
	assert.Equal(t, ManifestVersion, doc.Version)
}

func TestDecodeManifestRejectsInvalidDocuments(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "empty document",
			yaml:    "",
			wantErr: "manifest is empty",
		},
		{
			name: "unsupported version",
			yaml: `version: "2"
widgets: []
`,
			wantErr: "unsupported manifest version",
		},
		{
			name: "missing code",
			yaml: `version: "1"
widgets:
  - definition:
      name: Nameless
`,
			wantErr: "missing definition.code",
		},
		{
			name: "missing name",
			yaml: `version: "1"
widgets:
  - definition:
      code: crm.widget.calls
`,
			wantErr: "missing definition.name",
		},
		{
			name: "duplicate codes",
			yaml: `version: "1"
widgets:
  - definition:
      code: crm.widget.calls
      name: Calls
  - definition:
      code: crm.widget.calls
      name: Calls again
`,
			wantErr: "duplicates widget code",
		},
		{
			name: "unknown field",
			yaml: `version: "1"
widgets:
  - definition:
      code: crm.widget.calls
      name: Calls
    provider: crm.provider
`,
			wantErr: "parse manifest",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeManifest(strings.NewReader(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRegistryLoadManifestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifestYAML), 0o644))

	reg := NewRegistry()
	doc, err := reg.LoadManifestFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)

	def, ok := reg.Definition("crm.widget.pipeline")
	require.True(t, ok)
	assert.Equal(t, "Воронка продаж", def.NameForLocale("ru"))
}

func TestReadManifestMissingFile(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open manifest")
}
