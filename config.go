package comphysearch

// DefaultStagingDir is where repository working copies are checked out.
// It is always excluded from indexing so the tool never indexes its own
// working data.
const DefaultStagingDir = ".staging"

// DefaultOutputPath is where the search index artifact is written.
const DefaultOutputPath = "search_db.json"

// Config holds the full run configuration. It is constructed once at
// startup, validated before any extraction begins, and passed explicitly
// into the pipeline; no state outlives the run.
type Config struct {
	// OutputPath is the search index artifact location.
	OutputPath string `koanf:"output" json:"output"`

	// StagingDir holds repository checkouts. Never indexed.
	StagingDir string `koanf:"staging_dir" json:"stagingDir"`

	// ChunkBound is the target maximum chunk length in characters.
	ChunkBound int `koanf:"chunk_bound" json:"chunkBound"`

	// PreviewBound is the maximum record content length in characters.
	PreviewBound int `koanf:"preview_bound" json:"previewBound"`

	// Repositories is the ordered registry. Order determines output
	// order.
	Repositories []*Repository `koanf:"repositories" json:"repositories"`
}

// Validate returns an error if the configuration cannot guarantee a
// deterministic, well-formed index. Any error here is fatal for the run.
func (c *Config) Validate() error {
	if c.OutputPath == "" {
		return Errorf(EINVALID, "output path required")
	}
	if c.StagingDir == "" {
		return Errorf(EINVALID, "staging dir required")
	}
	// Zero means "use the default bound"; only negatives are invalid.
	if c.ChunkBound < 0 || c.PreviewBound < 0 {
		return Errorf(EINVALID, "chunk and preview bounds must not be negative")
	}
	if len(c.Repositories) == 0 {
		return Errorf(EINVALID, "at least one repository required")
	}

	seen := make(map[string]bool, len(c.Repositories))
	for _, repo := range c.Repositories {
		if err := repo.Validate(); err != nil {
			return err
		}
		if seen[repo.Name] {
			return Errorf(EINVALID, "duplicate repository name %q", repo.Name)
		}
		seen[repo.Name] = true
	}
	return nil
}

// DefaultConfig returns the compiled-in configuration for the CoMPhy Lab
// sites. A config file or environment overrides refine it.
func DefaultConfig() *Config {
	return &Config{
		OutputPath:   DefaultOutputPath,
		StagingDir:   DefaultStagingDir,
		ChunkBound:   DefaultChunkBound,
		PreviewBound: DefaultPreviewBound,
		Repositories: []*Repository{
			{
				Name:      "comphy-lab.github.io",
				RemoteURL: "https://github.com/comphy-lab/comphy-lab.github.io.git",
				LocalPath: "comphy-lab.github.io",
				BaseURL:   "https://comphy-lab.org",
				Kind:      KindWebsite,
				DirectoryMap: map[string]string{
					"_team":     "/team/",
					"_research": "/research/",
					"_teaching": "/teaching/",
					"_join-us":  "/join/",
				},
			},
			{
				Name:      "CoMPhy-Lab-Blogs",
				RemoteURL: "https://github.com/comphy-lab/CoMPhy-Lab-Blogs.git",
				LocalPath: "CoMPhy-Lab-Blogs",
				BaseURL:   "https://blogs.comphy-lab.org",
				Kind:      KindBlog,
				Blog: &BlogSettings{
					PostDir:   "_posts",
					DateInURL: true,
					URLPrefix: "/blog",
				},
			},
			projectRepo("Viscoelastic3D"),
			projectRepo("Viscoelastic-Worthington-jets-and-droplets-produced-by-bursting-bubbles"),
			projectRepo("BurstingBubble_Herschel-Bulkley"),
			projectRepo("soapy"),
			projectRepo("HoleySheet"),
			projectRepo("MultiRheoFlow"),
			projectRepo("fiber"),
			projectRepo("JumpingBubbles"),
			projectRepo("Drop-Impact"),
			projectRepo("Asymmetries-in-coalescence"),
		},
	}
}

// projectRepo builds the registry entry for a project documentation
// repository published under a subpath of the main domain.
func projectRepo(name string) *Repository {
	return &Repository{
		Name:      name,
		RemoteURL: "https://github.com/comphy-lab/" + name,
		LocalPath: name,
		BaseURL:   "https://comphy-lab.org/" + name,
		Kind:      KindDocs,
	}
}
