// Package objectkey generates blob store keys for uploaded files.
package objectkey

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator defines the interface for object key generation strategies
type Generator interface {
	// GenerateKey creates an object key for an upload
	GenerateKey(uploadID uuid.UUID, fileName string) string
}

// ShardedGenerator produces keys sharded by the leading characters of the
// upload id, keeping any single directory from growing unbounded on
// filesystem backends:
//
//	uploads/ab/cd1234..._report.pdf
type ShardedGenerator struct {
	// Prefix is the top-level path segment (default: "uploads")
	Prefix string
	// ShardLength controls how many characters to use for sharding (default: 2)
	ShardLength int
}

func NewShardedGenerator() *ShardedGenerator {
	return &ShardedGenerator{
		Prefix:      "uploads",
		ShardLength: 2,
	}
}

func (g *ShardedGenerator) GenerateKey(uploadID uuid.UUID, fileName string) string {
	idStr := strings.ReplaceAll(uploadID.String(), "-", "")

	shardLen := g.ShardLength
	if shardLen <= 0 || shardLen > len(idStr) {
		shardLen = 2
	}
	shardDir := idStr[:shardLen]
	remaining := idStr[shardLen:]

	name := remaining
	if fileName != "" {
		name = fmt.Sprintf("%s_%s", remaining, sanitizeFilename(fileName))
	}

	return fmt.Sprintf("%s/%s/%s", g.Prefix, shardDir, name)
}

// CustomFuncGenerator allows callers to provide their own key generation function
type CustomFuncGenerator struct {
	GenerateFunc func(uploadID uuid.UUID, fileName string) string
}

func NewCustomFuncGenerator(fn func(uploadID uuid.UUID, fileName string) string) *CustomFuncGenerator {
	return &CustomFuncGenerator{GenerateFunc: fn}
}

func (g *CustomFuncGenerator) GenerateKey(uploadID uuid.UUID, fileName string) string {
	return g.GenerateFunc(uploadID, fileName)
}

// sanitizeFilename replaces characters that are problematic in object keys
// or on filesystem backends.
func sanitizeFilename(filename string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	return replacer.Replace(filename)
}
