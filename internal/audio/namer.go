package audio

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// ArtifactPrefix starts the file name of every synthesized artifact
const ArtifactPrefix = "translated_output"

var artifactPattern = regexp.MustCompile(`^` + ArtifactPrefix + `_\d{14}_[0-9a-f]{8}\.mp3$`)

// Namer hands out unique artifact paths inside one directory. Two calls
// within the same second still differ by their random suffix.
type Namer struct {
	dir string
	now func() time.Time
	id  func() string
}

// NewNamer creates a namer for dir
func NewNamer(dir string) *Namer {
	return &Namer{
		dir: dir,
		now: time.Now,
		id:  func() string { return uuid.NewString()[:8] },
	}
}

// Dir returns the directory artifacts are placed in
func (n *Namer) Dir() string {
	return n.dir
}

// Next returns a fresh artifact path
func (n *Namer) Next() string {
	name := fmt.Sprintf("%s_%s_%s.mp3", ArtifactPrefix, n.now().Format("20060102150405"), n.id())
	return filepath.Join(n.dir, name)
}

// Match reports whether a base file name looks like a synthesized artifact
func Match(name string) bool {
	return artifactPattern.MatchString(name)
}
