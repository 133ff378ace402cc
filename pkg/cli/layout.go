package cli

import (
	"os"

	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// loadLayout reads a YAML layout file and merges it over the default layout. An empty path
// returns the default layout.
func loadLayout(path string) (*model.Layout, error) {
	base := model.DefaultLayout()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read layout file", goerr.V("path", path))
	}

	var override model.Layout
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, goerr.Wrap(err, "failed to parse layout file", goerr.V("path", path))
	}

	layout := base.Merge(&override)
	if err := layout.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid layout", goerr.V("path", path))
	}
	return layout, nil
}
