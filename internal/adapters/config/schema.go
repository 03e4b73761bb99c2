package config

// Projectfile represents the structure of the lesscache.yaml configuration file.
type Projectfile struct {
	Version       string                   `yaml:"version"`
	Root          string                   `yaml:"root"`
	RootURL       string                   `yaml:"root_url"`
	VersionedURLs bool                     `yaml:"versioned_urls"`
	Compiler      string                   `yaml:"compiler"`
	CompilerEnv   map[string]string        `yaml:"compiler_env"`
	Options       map[string]string        `yaml:"options"`
	Vars          map[string]string        `yaml:"vars"`
	Stylesheets   map[string]StylesheetDTO `yaml:"stylesheets"`
}

// StylesheetDTO represents a stylesheet definition in the configuration.
type StylesheetDTO struct {
	Source     string            `yaml:"source"`
	Output     string            `yaml:"output"`
	Monitor    []string          `yaml:"monitor"`
	MonitorDir string            `yaml:"monitor_dir"`
	Options    map[string]string `yaml:"options"`
	Vars       map[string]string `yaml:"vars"`
}
