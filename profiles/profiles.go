// Package profiles ships named image profiles: a size plus a bytes-per-inode
// tuning preset the shell's format command accepts in place of a literal
// size string.
package profiles

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// ImageProfile is one row of the embedded profile table.
type ImageProfile struct {
	Name string `csv:"name"`
	Slug string `csv:"slug"`
	// Size is a size string the engine's parser understands, e.g. "64MB".
	Size string `csv:"size"`
	// BytesPerInode tunes how many inode slots the layout reserves. 0 means
	// use the engine default.
	BytesPerInode uint32 `csv:"bytes_per_inode"`
	Notes         string `csv:"notes"`
}

//go:embed image-profiles.csv
var imageProfilesRawCSV string

var imageProfiles = make(map[string]ImageProfile)

// Get returns the profile registered under `slug`.
func Get(slug string) (ImageProfile, error) {
	profile, ok := imageProfiles[slug]
	if ok {
		return profile, nil
	}
	return ImageProfile{}, fmt.Errorf("no image profile exists with slug %q", slug)
}

// Slugs returns every registered profile slug.
func Slugs() []string {
	slugs := make([]string, 0, len(imageProfiles))
	for slug := range imageProfiles {
		slugs = append(slugs, slug)
	}
	return slugs
}

func init() {
	reader := strings.NewReader(imageProfilesRawCSV)
	err := gocsv.UnmarshalToCallback(
		reader,
		func(row ImageProfile) error {
			if _, exists := imageProfiles[row.Slug]; exists {
				return fmt.Errorf("duplicate definition for profile %q", row.Slug)
			}
			imageProfiles[row.Slug] = row
			return nil
		},
	)
	if err != nil && err != io.EOF {
		panic(err)
	}
}
