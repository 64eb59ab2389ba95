package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewJobLabel generates an auto-assigned job label of the form
// <stage>_<timestamp>_<rand>, matching the qualification rule used when a
// caller creates a job without supplying an explicit label.
func NewJobLabel(stage string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s", stage, now.UTC().Format("20060102T150405"), suffix)
}
