package tasks

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/services"
	"gopkg.in/yaml.v3"
)

// CatalogFile is the on-disk catalog format accepted by [ImportFile].
//
// Either YAML or JSON; a bare list is read as tracks.
type CatalogFile struct {
	Tracks []services.TrackFeedItem `yaml:"tracks"`
	Goals  []models.Goal            `yaml:"goals"`
}

// ImportResult summarizes a file import.
type ImportResult struct {
	SyncResult
	Goals int
}

// ParseCatalog decodes a catalog document from r.
func ParseCatalog(r io.Reader) (*CatalogFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(node.Content) == 0 {
		return &CatalogFile{}, nil
	}

	var file CatalogFile
	switch root := node.Content[0]; root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&file.Tracks); err != nil {
			return nil, fmt.Errorf("failed to decode track list: %w", err)
		}
	case yaml.MappingNode:
		if err := root.Decode(&file); err != nil {
			return nil, fmt.Errorf("failed to decode catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("catalog must be a mapping or a list, got %s", root.Tag)
	}
	return &file, nil
}

// ImportFile reads the catalog at path and stores its tracks and goals.
//
// Invalid tracks are reported in the result and skipped. goals may be nil to ignore goal entries.
func ImportFile(path string, tracks TrackCacher, goals GoalStore, progress chan<- ProgressUpdate) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	file, err := ParseCatalog(f)
	if err != nil {
		return nil, err
	}
	sendProgress(progress, importFileUpdate(path, len(file.Tracks), len(file.Goals)))

	result := &ImportResult{}
	result.Total = len(file.Tracks)
	for i, item := range file.Tracks {
		track, err := item.Track()
		if err == nil {
			var created bool
			if created, err = tracks.CacheTrack(track); err == nil {
				if created {
					result.Created++
				} else {
					result.Updated++
				}
				sendProgress(progress, storeTrackUpdate(i+1, len(file.Tracks), track, created))
				continue
			}
		}
		result.Failed = append(result.Failed, TrackError{TrackID: item.ID, Err: err})
	}

	if goals != nil && len(file.Goals) > 0 {
		for _, g := range file.Goals {
			if err := g.Validate(); err != nil {
				return result, err
			}
		}
		n, err := storeGoals(goals, file.Goals, progress)
		result.Goals = n
		if err != nil {
			return result, err
		}
	}

	if len(result.Failed) == result.Total && result.Total > 0 {
		errs := make([]error, len(result.Failed))
		for i, f := range result.Failed {
			errs[i] = f
		}
		return result, fmt.Errorf("no tracks imported: %w", errors.Join(errs...))
	}
	return result, nil
}
