package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const noManifestMessage = "no cgull.toml found\nplease specify the input explicitly, e.g.:\n  cgull build path/to/file.cgull"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package packageConfig `toml:"package"`
	Build   buildConfig   `toml:"build"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type buildConfig struct {
	Main   string `toml:"main"`
	Output string `toml:"output"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "cgull.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var config projectConfig
	if _, err := toml.DecodeFile(manifestPath, &config); err != nil {
		return nil, true, fmt.Errorf("failed to parse %s: %w", manifestPath, err)
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: config,
	}, true, nil
}

// resolveInput picks the input path from the argument or the manifest.
func resolveInput(args []string) (path string, outputDir string, err error) {
	if len(args) > 0 {
		return args[0], "", nil
	}
	manifest, ok, err := loadProjectManifest(".")
	if err != nil {
		return "", "", err
	}
	if !ok || manifest.Config.Build.Main == "" {
		return "", "", errors.New(noManifestMessage)
	}
	path = filepath.Join(manifest.Root, manifest.Config.Build.Main)
	if manifest.Config.Build.Output != "" {
		outputDir = filepath.Join(manifest.Root, manifest.Config.Build.Output)
	}
	return path, outputDir, nil
}
