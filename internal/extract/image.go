package extract

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"github.com/tbukov/mdeco/internal/treedict"
)

const exifModulePath = "github.com/rwcarlsen/goexif"

// ImageTagSupport reports whether the EXIF tag reading library is
// linked in to this build, capturing its version for diagnostics.
func ImageTagSupport() Capability {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Capability{Available: false, Reason: "build information unavailable, cannot verify EXIF library presence"}
	}

	for _, dep := range info.Deps {
		if dep.Path == exifModulePath {
			return Capability{Available: true, Version: fmt.Sprintf("%s %s", dep.Path, dep.Version)}
		}
	}

	return Capability{Available: false, Reason: "EXIF tag reading library is not linked in to this build"}
}

// ImageTags reads the EXIF tags embedded in the image at 'path' and
// returns them as a nested tree rooted at the 'Exif' namespace. Images
// carrying no parsable EXIF payload yield an empty tree rather than an
// error, since absence of tags is an expected outcome for many formats.
//
// When 'fractionsAsFloat' is set, rational tag values are converted to
// floats; otherwise they are kept as 'numerator/denominator' strings.
func ImageTags(path string, fractionsAsFloat bool) (*treedict.Tree, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image for tag extraction: %w", err)
	}
	defer file.Close()

	tree := treedict.New()

	decoded, err := exif.Decode(file)
	if err != nil {
		return tree, nil
	}

	walker := &tagWalker{tree: tree, fractionsAsFloat: fractionsAsFloat, seen: make(map[string]bool)}
	if err := decoded.Walk(walker); err != nil {
		return nil, fmt.Errorf("failed to walk EXIF tags: %w", err)
	}

	return tree, nil
}

type tagWalker struct {
	tree             *treedict.Tree
	fractionsAsFloat bool
	seen             map[string]bool
}

// Walk records each visited tag under Exif/<field>. Some files repeat
// fields across IFDs (e.g. thumbnail data); only the first occurrence
// is kept.
func (walker *tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	field := string(name)
	if walker.seen[field] {
		return nil
	}
	walker.seen[field] = true

	return walker.tree.AddNode([]string{"Exif", field}, walker.tagValue(tag))
}

func (walker *tagWalker) tagValue(tag *tiff.Tag) any {
	switch tag.Format() {
	case tiff.StringVal:
		if value, err := tag.StringVal(); err == nil {
			return value
		}
	case tiff.IntVal:
		if value, err := tag.Int(0); err == nil {
			return value
		}
	case tiff.FloatVal:
		if value, err := tag.Float(0); err == nil {
			return value
		}
	case tiff.RatVal:
		if value, err := tag.Rat(0); err == nil {
			if walker.fractionsAsFloat {
				asFloat, _ := value.Float64()
				return asFloat
			}

			return value.RatString()
		}
	}

	return tag.String()
}
