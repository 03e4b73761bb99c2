package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/lesscache/internal/core/domain"
)

func TestParserOptions_Args(t *testing.T) {
	opts := domain.ParserOptions{
		"strict-math":     "on",
		"compress":        "true",
		"source-map":      "false",
		"--relative-urls": "",
	}

	assert.Equal(t, []string{"--relative-urls", "--compress", "--strict-math=on"}, opts.Args())
}

func TestParserOptions_Merge(t *testing.T) {
	base := domain.ParserOptions{"compress": "false", "strict-math": "on"}
	merged := base.Merge(domain.ParserOptions{"compress": "true"})

	assert.Equal(t, domain.ParserOptions{"compress": "true", "strict-math": "on"}, merged)
	assert.Equal(t, "false", base["compress"], "merge must not mutate the receiver")
	assert.Nil(t, domain.ParserOptions(nil).Merge(nil))
}

func TestStylesheet_Request(t *testing.T) {
	s := &domain.Stylesheet{
		Name:       "theme",
		Source:     "theme/main.less",
		Monitor:    []string{"theme/vars.less"},
		MonitorDir: "theme/partials",
		Options:    domain.ParserOptions{"compress": "true"},
	}

	req := s.Request()
	assert.Equal(t, "theme", req.Key())
	assert.Equal(t, "theme/main.less", req.Source)
	assert.Empty(t, req.Output)

	req.Monitor[0] = "changed"
	assert.Equal(t, "theme/vars.less", s.Monitor[0])
}

func TestRequest_KeyDefaultsToSource(t *testing.T) {
	req := domain.Request{Source: "a.less"}
	assert.Equal(t, "a.less", req.Key())
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "theme/main.less.css", domain.DefaultOutputPath("theme/main.less"))
}

func TestVariables_Args(t *testing.T) {
	vars := domain.Variables{"primary": "#336699", "@gutter": "12px", "font": `"Inter"`}

	assert.Equal(t, []string{
		"--modify-var=gutter=12px",
		`--modify-var=font="Inter"`,
		"--modify-var=primary=#336699",
	}, vars.Args())
	assert.Empty(t, domain.Variables(nil).Args())
}

func TestVariables_Merge(t *testing.T) {
	base := domain.Variables{"primary": "red", "gutter": "10px"}
	merged := base.Merge(domain.Variables{"primary": "blue"})

	assert.Equal(t, domain.Variables{"primary": "blue", "gutter": "10px"}, merged)
	assert.Equal(t, "red", base["primary"])
	assert.Nil(t, domain.Variables(nil).Merge(nil))
}

func TestCompileJob_Args(t *testing.T) {
	job := domain.CompileJob{
		Source:  "theme.less",
		Options: domain.ParserOptions{"compress": "true"},
		Vars:    domain.Variables{"primary": "blue"},
	}

	assert.Equal(t, []string{"--compress", "--modify-var=primary=blue", "theme.less"}, job.Args())
}

func TestIsCSS(t *testing.T) {
	assert.True(t, domain.IsCSS("vendor/reset.css"))
	assert.True(t, domain.IsCSS("vendor/RESET.CSS"))
	assert.False(t, domain.IsCSS("theme.less"))
	assert.False(t, domain.IsCSS("theme.less.css.map"))
}
