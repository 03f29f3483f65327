package config

// Config represents a crucible.yaml configuration file.
// All values are optional and act as defaults for crucible flags.
// CLI flags always override config values.
type Config struct {
	Solver SolverConfig `yaml:"solver"`
	Reads  ReadsConfig  `yaml:"reads"`
}

// SolverConfig holds solver backend defaults from the config file.
type SolverConfig struct {
	// Command overrides the solver binary name or path.
	Command string `yaml:"command"`
	// TempDir overrides where the query artifact is written.
	TempDir string `yaml:"temp_dir"`
	// CacheDir enables the answer cache at the given directory.
	CacheDir string `yaml:"cache_dir"`
}

// ReadsConfig holds file backend defaults from the config file.
type ReadsConfig struct {
	// BasePath is the root relative imports resolve against.
	BasePath string `yaml:"base_path"`
	// AllowedPaths lists extra directories reads may touch.
	AllowedPaths []string `yaml:"allowed_paths"`
	// Remote configures the optional S3 source for s3:// imports.
	Remote *RemoteConfig `yaml:"remote,omitempty"`
}

// RemoteConfig holds S3 source defaults from the config file.
type RemoteConfig struct {
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}
