package model

import (
	"path/filepath"
	"strings"
)

// Companion file suffixes. A companion is named by appending the suffix to
// the artifact file name.
const (
	SuffixMD5       = ".md5"
	SuffixSHA1      = ".sha1"
	SuffixSignature = ".asc"
)

var companionSuffixes = []string{SuffixMD5, SuffixSHA1, SuffixSignature}

// IsCompanion reports whether name is a checksum or signature file
func IsCompanion(name string) bool {
	for _, s := range companionSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// ArtifactFile is a build output that belongs to a module directory
type ArtifactFile struct {
	Module string
	Path   string
}

// Name is the base file name
func (a *ArtifactFile) Name() string {
	return filepath.Base(a.Path)
}

// MD5Path is the path of the MD5 checksum companion
func (a *ArtifactFile) MD5Path() string { return a.Path + SuffixMD5 }

// SHA1Path is the path of the SHA-1 checksum companion
func (a *ArtifactFile) SHA1Path() string { return a.Path + SuffixSHA1 }

// SignaturePath is the path of the detached signature written by gpg -ab
func (a *ArtifactFile) SignaturePath() string { return a.Path + SuffixSignature }

// Companions lists every companion path of the artifact
func (a *ArtifactFile) Companions() []string {
	return []string{a.MD5Path(), a.SHA1Path(), a.SignaturePath()}
}
