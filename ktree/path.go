package ktree

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/birdayz/kdags/kunit"
)

// Delimiter joins the segments of a Path into a qualified name.
const Delimiter = "__"

// Sentinel errors for common failure cases.
var (
	ErrInvalidPath        = errors.New("invalid path")
	ErrTrailingUnderscore = errors.New("path element ends with an underscore")
	ErrRepeatedTopLevel   = errors.New("top-level element repeated in path")
	ErrNameClash          = errors.New("name clash")
)

// Path locates a unit or input in a tree, root segment first.
type Path []string

// JoinPath returns the qualified name of segments.
func JoinPath(segments ...string) string {
	return strings.Join(segments, Delimiter)
}

// SplitQualifiedName splits a qualified name into its path.
// For every valid p, SplitQualifiedName(p.QualifiedName()) equals p.
func SplitQualifiedName(qname string) Path {
	return strings.Split(qname, Delimiter)
}

// QualifiedName returns the delimiter-joined path.
func (p Path) QualifiedName() string {
	return JoinPath(p...)
}

func (p Path) String() string {
	return "(" + strings.Join(p, ", ") + ")"
}

// Namespace returns the path without its leaf.
func (p Path) Namespace() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Leaf returns the last segment.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Validate checks that the path survives a join/split round trip: it is
// not empty, every segment is an identifier without the delimiter, and no
// segment but the leaf ends in an underscore.
func (p Path) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	for i, segment := range p {
		if segment == "" {
			return fmt.Errorf("%w: %s has an empty segment", ErrInvalidPath, p)
		}
		if strings.Contains(segment, Delimiter) {
			return fmt.Errorf("%w: segment %q of %s contains %q", ErrInvalidPath, segment, p, Delimiter)
		}
		if err := kunit.ValidateName(segment); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidPath, p, err)
		}
		if i < len(p)-1 && strings.HasSuffix(segment, "_") {
			return fmt.Errorf("%w: %s", ErrTrailingUnderscore, p)
		}
	}
	return nil
}

func (p Path) hasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && slices.Equal(p[:len(prefix)], prefix)
}

func (p Path) clone() Path {
	return slices.Clone(p)
}
