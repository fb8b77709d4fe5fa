package sequence

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/menta2k/pixelator/pkg/shapes"
)

// Job is the on-disk description of one frame-span pixelation run.
type Job struct {
	Source       string   `yaml:"source"`
	Target       string   `yaml:"target"`
	Pattern      string   `yaml:"pattern,omitempty"`
	Tilesize     int      `yaml:"tilesize"`
	Quality      int      `yaml:"quality,omitempty"`
	SkipExisting bool     `yaml:"skip_existing,omitempty"`
	Start        Keyframe `yaml:"start"`
	End          Keyframe `yaml:"end"`
}

// ReadJob reads a job description from a YAML file.
func ReadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parse job file %s: %w", path, err)
	}
	return &job, nil
}

// WriteJob writes a job description to a YAML file.
func WriteJob(job *Job, path string) error {
	data, err := yaml.Marshal(job)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RunJob builds a Runner from the job and runs it, sharing the given mask
// cache across frames. A nil cache allocates a private one.
func RunJob(job *Job, cache *shapes.Cache, progress ProgressFunc) error {
	runner, err := New(Config{
		Source:       job.Source,
		Target:       job.Target,
		Pattern:      job.Pattern,
		Quality:      job.Quality,
		SkipExisting: job.SkipExisting,
	}, cache)
	if err != nil {
		return err
	}
	tilesize := job.Tilesize
	if tilesize < 1 {
		return fmt.Errorf("invalid tilesize %d", tilesize)
	}
	return runner.Run(tilesize, job.Start, job.End, progress)
}
