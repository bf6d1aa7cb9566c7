package cli

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"f1score/pkg/score"
)

var artifactsCmd = &cli.Command{
	Name:    "artifacts",
	Aliases: []string{"a"},
	Usage:   "List the fitted artifact files and their checksums",
	Action:  cmdArtifacts,
}

// ArtifactInfo is one manifest entry in the artifacts listing.
type ArtifactInfo struct {
	Name   string `json:"name" yaml:"name"`
	SHA256 string `json:"sha256" yaml:"sha256"`
	Bytes  int64  `json:"bytes" yaml:"bytes"`
}

// ArtifactList is the report printed by the artifacts command.
type ArtifactList struct {
	Dir     string         `json:"dir" yaml:"dir"`
	Version string         `json:"version,omitempty" yaml:"version,omitempty"`
	Created string         `json:"created,omitempty" yaml:"created,omitempty"`
	Items   []ArtifactInfo `json:"items" yaml:"items"`
}

func cmdArtifacts(c *cli.Context) error {
	cfg := getConfig(c)

	a, err := score.LoadArtifacts(cfg.Config.ArtifactsDir)
	if err != nil {
		return fmt.Errorf("loading artifacts from %s: %w", cfg.Config.ArtifactsDir, err)
	}

	list := &ArtifactList{Dir: cfg.Config.ArtifactsDir}
	if a.Manifest != nil {
		list.Version = a.Manifest.Version
		list.Created = a.Manifest.Created
		for name, item := range a.Manifest.Items {
			list.Items = append(list.Items, ArtifactInfo{
				Name:   name,
				SHA256: item.SHA256,
				Bytes:  item.Bytes,
			})
		}
		sort.Slice(list.Items, func(i, j int) bool {
			return list.Items[i].Name < list.Items[j].Name
		})
	}
	return encode(list)
}
