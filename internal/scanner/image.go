package scanner

import (
	"github.com/tbukov/mdeco/internal/extract"
	"github.com/tbukov/mdeco/internal/treedict"
)

// ImageInfoScanner extracts the EXIF tag namespaces embedded in image
// formats (JPEG, TIFF, ...) and emits them as a single flattened
// mapping under the 'image_metadata' facet.
type ImageInfoScanner struct {
	Scanner

	fractionsAsFloat bool
	libraryVersion   string
}

func NewImageInfoScanner(fractionsAsFloat bool) *ImageInfoScanner {
	scanner := &ImageInfoScanner{
		Scanner:          NewScanner("ImageInfo", []string{"image/*"}),
		fractionsAsFloat: fractionsAsFloat,
	}

	scanner.mustRegister(scanner.addImageMetadata, "image tag extraction")

	return scanner
}

// PreChecks verifies the EXIF tag reading library is usable, capturing
// its version string for diagnostics.
func (scanner *ImageInfoScanner) PreChecks() error {
	capability := extract.ImageTagSupport()
	if !capability.Available {
		scanner.markFailed()
		return &MissingDependencyError{
			Dependency: "EXIF tag reading library",
			Hint:       capability.Reason,
		}
	}

	scanner.libraryVersion = capability.Version
	scanner.markReady()

	return nil
}

// LibraryVersion reports the version of the tag reading library as
// captured by the last successful PreChecks run.
func (scanner *ImageInfoScanner) LibraryVersion() string {
	return scanner.libraryVersion
}

func (scanner *ImageInfoScanner) addImageMetadata(path string) (*treedict.Tree, error) {
	tags, err := extract.ImageTags(path, scanner.fractionsAsFloat)
	if err != nil {
		return nil, err
	}

	result := treedict.New()
	result.Set("image_metadata", tags.Flatten(treedict.DefaultSeparator))

	return result, nil
}
