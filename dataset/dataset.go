// Package dataset provides the bundled historical facts and loaders for
// user-supplied datasets in the same YAML layout.
package dataset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"histfacts/facts"
)

//go:embed facts.yaml
var historicalYAML []byte

// ErrInvalidDataset is returned when a dataset file cannot be decoded or
// holds a record that breaks the dataset rules.
var ErrInvalidDataset = errors.New("invalid dataset")

type record struct {
	ID         int      `yaml:"id"`
	Text       string   `yaml:"text"`
	Fact       string   `yaml:"fact"` // accepted in place of text
	ImageURL   string   `yaml:"image_url"`
	Tags       []string `yaml:"tags"`
	Period     string   `yaml:"period"`
	Year       int      `yaml:"year"`
	IsExplicit bool     `yaml:"is_explicit"`
}

type document struct {
	Facts []record `yaml:"facts"`
}

// Historical returns the bundled dataset.
func Historical() ([]facts.Fact, error) {
	return Parse(bytes.NewReader(historicalYAML))
}

// Parse decodes a YAML dataset. Ids must be positive and unique, and every
// fact needs text. An empty document yields facts.ErrEmptyDataset.
func Parse(r io.Reader) ([]facts.Fact, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	if len(doc.Facts) == 0 {
		return nil, facts.ErrEmptyDataset
	}

	out := make([]facts.Fact, 0, len(doc.Facts))
	seen := make(map[int]struct{}, len(doc.Facts))
	for i, rec := range doc.Facts {
		text := rec.Text
		if text == "" {
			text = rec.Fact
		}
		switch {
		case rec.ID <= 0:
			return nil, fmt.Errorf("%w: entry %d: id %d is not positive", ErrInvalidDataset, i, rec.ID)
		case strings.TrimSpace(text) == "":
			return nil, fmt.Errorf("%w: fact %d: empty text", ErrInvalidDataset, rec.ID)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("%w: fact %d: duplicate id", ErrInvalidDataset, rec.ID)
		}
		seen[rec.ID] = struct{}{}

		out = append(out, facts.Fact{
			ID:         rec.ID,
			Text:       text,
			ImageURL:   rec.ImageURL,
			Tags:       rec.Tags,
			Period:     rec.Period,
			Year:       rec.Year,
			IsExplicit: rec.IsExplicit,
		})
	}
	return out, nil
}

func LoadFile(path string) ([]facts.Fact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// FromEnv loads the file named by HISTFACTS_DATASET, or the bundled
// dataset when the variable is unset.
func FromEnv() ([]facts.Fact, error) {
	if path := os.Getenv("HISTFACTS_DATASET"); path != "" {
		return LoadFile(path)
	}
	return Historical()
}
