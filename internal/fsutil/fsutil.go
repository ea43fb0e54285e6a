package fsutil

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"mime"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/zeebo/blake3"
)

const (
	// DefaultHashAlgorithm is used when the caller does not request a
	// specific digest.
	DefaultHashAlgorithm = "sha256"

	// DefaultHashBlockSize bounds the amount of file content held in
	// memory while digesting, allowing files larger than available
	// memory to be hashed (8 MiB).
	DefaultHashBlockSize = 8 * 1024 * 1024
)

// hashConstructors maps the supported digest algorithm names to their
// constructors. blake3 is included alongside the stdlib algorithms for
// callers that want a faster digest over very large media files.
var hashConstructors = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
	"blake3": func() hash.Hash { return blake3.New() },
}

// HashAlgorithms returns the names of the supported digest algorithms.
func HashAlgorithms() []string {
	names := make([]string, 0, len(hashConstructors))
	for name := range hashConstructors {
		names = append(names, name)
	}

	return names
}

// HashFile computes the named digest over the content of the file at
// 'path', reading in fixed-size blocks so memory use is bounded
// regardless of the file size. The digest is returned hex-encoded.
func HashFile(path string, algorithm string, blockSize int) (string, error) {
	constructor, ok := hashConstructors[algorithm]
	if !ok {
		return "", fmt.Errorf("unknown hash algorithm '%s' requested, valid algorithms are %v", algorithm, HashAlgorithms())
	}

	if blockSize <= 0 {
		blockSize = DefaultHashBlockSize
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer file.Close()

	hasher := constructor()
	if _, err := io.CopyBuffer(hasher, file, make([]byte, blockSize)); err != nil {
		return "", fmt.Errorf("failed to hash file content: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

type TimestampMode int

const (
	Modified TimestampMode = iota
	Created
)

// TimestampFormat is the fixed output layout for file timestamps. The
// rendered string (not an epoch number) is part of the output contract.
const TimestampFormat = "2006-01-02 15:04:05"

// Timestamp returns the modification or creation time of the file at
// 'path' rendered using TimestampFormat. The meaning of 'created' is
// platform dependent; on platforms without a usable creation time the
// inode change time (or modification time) is reported instead.
func Timestamp(path string, mode TimestampMode, localtime bool) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat file for timestamps: %w", err)
	}

	when := info.ModTime()
	if mode == Created {
		when = changeTime(info)
	}

	if !localtime {
		when = when.UTC()
	}

	return when.Format(TimestampFormat), nil
}

// FindExecutable searches the OS search path for the named executable
// and returns its absolute path, or the empty string if it cannot be
// located.
func FindExecutable(name string) string {
	located, err := exec.LookPath(name)
	if err != nil {
		return ""
	}

	if absolute, err := filepath.Abs(located); err == nil {
		return absolute
	}

	return located
}

// DetectMIME guesses the MIME type of the file at 'path', preferring the
// cheap extension-based lookup and falling back to content sniffing.
// Returns the empty string when no determination could be made; callers
// are expected to substitute their own default.
func DetectMIME(path string) string {
	if guessed := MIMEByExtension(path); guessed != "" {
		return guessed
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}

	return stripMIMEParams(detected.String())
}

// MIMEByExtension guesses the MIME type purely from the file name
// extension, returning the empty string for unknown extensions.
func MIMEByExtension(path string) string {
	return stripMIMEParams(mime.TypeByExtension(filepath.Ext(path)))
}

// MIMECategory extracts the top-level category ('image', 'video', ...)
// from a MIME type string.
func MIMECategory(mimeType string) string {
	if mimeType == "" {
		return ""
	}

	if idx := strings.IndexByte(mimeType, '/'); idx >= 0 {
		return mimeType[:idx]
	}

	return mimeType
}

func stripMIMEParams(mimeType string) string {
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = mimeType[:idx]
	}

	return strings.TrimSpace(mimeType)
}
