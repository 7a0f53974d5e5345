package config

// EngineOptions are the documentation-engine options consumed once at startup.
// They are fixed in code: the site always renders math, keeps code blocks out
// of the search index, and mounts content under /docs.
type EngineOptions struct {
	Latex              bool             `yaml:"latex" json:"latex"`
	Search             SearchOptions    `yaml:"search" json:"search"`
	ContentDirBasePath string           `yaml:"contentDirBasePath" json:"contentDirBasePath"`
	Framework          FrameworkOptions `yaml:"framework" json:"framework"`
}

// SearchOptions controls what the search index contains.
type SearchOptions struct {
	Codeblocks bool `yaml:"codeblocks" json:"codeblocks"`
}

// FrameworkOptions are pass-through options for the rendering framework.
// StrictMode has no component-model counterpart here; the markdown renderer
// reads it as "drop raw HTML embedded in markdown".
type FrameworkOptions struct {
	StrictMode bool `yaml:"strictMode" json:"strictMode"`
}

// DefaultContentDirBasePath is the URL prefix content files are mounted under.
const DefaultContentDirBasePath = "/docs"

// Engine returns the engine options the site is built with.
func Engine() EngineOptions {
	return EngineOptions{
		Latex: true,
		Search: SearchOptions{
			Codeblocks: false,
		},
		ContentDirBasePath: DefaultContentDirBasePath,
		Framework: FrameworkOptions{
			StrictMode: true,
		},
	}
}
