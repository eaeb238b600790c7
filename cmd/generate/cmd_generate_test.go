package generate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/acmecorp/stackgen/internal/services/cfn"
)

type stubGenerator struct {
	concern  string
	template *cfn.Template
	err      error
}

func (s *stubGenerator) Concern() string {
	return s.concern
}

func (s *stubGenerator) BuildTemplate() (*cfn.Template, error) {
	return s.template, s.err
}

func validTemplate(t *testing.T) *cfn.Template {
	template := cfn.NewTemplate()
	template.SetVersion("2010-09-09")
	require.NoError(t, template.AddResource(cfn.Resource{
		Name:       "VPC",
		Type:       "AWS::EC2::VPC",
		Properties: map[string]any{"CidrBlock": "10.10.0.0/16"},
	}))
	return template
}

func TestRunGenerateWritesOneFile(t *testing.T) {
	outputDir = t.TempDir()
	format = "json"

	_, err := runGenerate(&stubGenerator{concern: "vpc", template: validTemplate(t)})
	require.NoError(t, err)

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "vpc.json", entries[0].Name())

	rendered, err := os.ReadFile(filepath.Join(outputDir, "vpc.json"))
	require.NoError(t, err)
	assert.Equal(t, "AWS::EC2::VPC", gjson.GetBytes(rendered, "Resources.VPC.Type").String())
}

func TestRunGenerateYAMLExtension(t *testing.T) {
	outputDir = t.TempDir()
	format = "yaml"

	_, err := runGenerate(&stubGenerator{concern: "db", template: validTemplate(t)})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outputDir, "db.yaml"))
	assert.NoError(t, err)
}

func TestRunGenerateUnresolvedReferenceWritesNothing(t *testing.T) {
	outputDir = t.TempDir()
	format = "json"

	template := cfn.NewTemplate()
	require.NoError(t, template.AddResource(cfn.Resource{
		Name:       "Subnet1",
		Type:       "AWS::EC2::Subnet",
		Properties: map[string]any{"VpcId": cfn.Ref("VPC")},
	}))

	_, err := runGenerate(&stubGenerator{concern: "vpc", template: template})
	require.Error(t, err)

	var unresolvedErr *cfn.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolvedErr)
	assert.Equal(t, "VPC", unresolvedErr.Name)

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "a failed render must not leave a template file behind")
}

func TestRunGenerateBuildError(t *testing.T) {
	outputDir = t.TempDir()
	format = "json"

	buildErr := errors.New("boom")
	_, err := runGenerate(&stubGenerator{concern: "vpc", err: buildErr})
	require.ErrorIs(t, err, buildErr)
}
