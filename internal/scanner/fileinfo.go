package scanner

import (
	"os"
	"path/filepath"

	"github.com/tbukov/mdeco/internal/fsutil"
	"github.com/tbukov/mdeco/internal/treedict"
)

// DefaultMimeType is substituted when no MIME type could be determined
// for a file.
const DefaultMimeType = "application/octet-stream"

// FileInfoScanner collects metadata about a file from the operating
// system along with a content digest. It matches every MIME type and is
// always ready, so it can be safely run against any file.
type FileInfoScanner struct {
	Scanner

	hashAlgorithm string
	hashBlockSize int
}

func NewFileInfoScanner(hashAlgorithm string, hashBlockSize int) *FileInfoScanner {
	if hashAlgorithm == "" {
		hashAlgorithm = fsutil.DefaultHashAlgorithm
	}
	if hashBlockSize <= 0 {
		hashBlockSize = fsutil.DefaultHashBlockSize
	}

	scanner := &FileInfoScanner{
		Scanner:       NewScanner("FileInfo", []string{"*/*"}),
		hashAlgorithm: hashAlgorithm,
		hashBlockSize: hashBlockSize,
	}

	scanner.mustRegister(scanner.addFileName, "file name")
	scanner.mustRegister(scanner.addFileType, "file kind from MIME category")
	scanner.mustRegister(scanner.addFileSize, "file size")
	scanner.mustRegister(scanner.addMimeType, "MIME type")
	scanner.mustRegister(scanner.addFileHash, "content hash")
	scanner.mustRegister(scanner.addTimestamps, "modified/created timestamps")

	return scanner
}

func (scanner *FileInfoScanner) addFileName(path string) (*treedict.Tree, error) {
	result := treedict.New()
	result.Set("file_name", filepath.Base(path))

	return result, nil
}

// addFileType reports the top-level MIME category derived from the file
// name extension alone, or 'unknown' when the extension is unfamiliar.
func (scanner *FileInfoScanner) addFileType(path string) (*treedict.Tree, error) {
	kind := fsutil.MIMECategory(fsutil.MIMEByExtension(path))
	if kind == "" {
		kind = "unknown"
	}

	result := treedict.New()
	result.Set("file_type", kind)

	return result, nil
}

func (scanner *FileInfoScanner) addFileSize(path string) (*treedict.Tree, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	result := treedict.New()
	result.Set("file_size", info.Size())

	return result, nil
}

func (scanner *FileInfoScanner) addMimeType(path string) (*treedict.Tree, error) {
	mimeType := fsutil.DetectMIME(path)
	if mimeType == "" {
		mimeType = DefaultMimeType
	}

	result := treedict.New()
	result.Set("mime_type", mimeType)

	return result, nil
}

func (scanner *FileInfoScanner) addFileHash(path string) (*treedict.Tree, error) {
	digest, err := fsutil.HashFile(path, scanner.hashAlgorithm, scanner.hashBlockSize)
	if err != nil {
		return nil, err
	}

	hash := treedict.New()
	hash.Set("value", digest)
	hash.Set("algorithm", scanner.hashAlgorithm)

	result := treedict.New()
	result.Set("file_hash", hash)

	return result, nil
}

func (scanner *FileInfoScanner) addTimestamps(path string) (*treedict.Tree, error) {
	modified, err := fsutil.Timestamp(path, fsutil.Modified, true)
	if err != nil {
		return nil, err
	}
	created, err := fsutil.Timestamp(path, fsutil.Created, true)
	if err != nil {
		return nil, err
	}

	timestamps := treedict.New()
	timestamps.Set("modified", modified)
	timestamps.Set("created", created)

	result := treedict.New()
	result.Set("file_timestamps", timestamps)

	return result, nil
}
