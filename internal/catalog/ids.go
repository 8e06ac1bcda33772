package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const productIDPrefix = "prd_"

// NewProductID generates an opaque product identifier of the form prd_<uuid>.
func NewProductID() string {
	return productIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NextWriteTime returns the UpdatedAt for a write happening at now on a row
// last written at prev. Timestamps have microsecond precision and strictly
// increase per row even when the wall clock does not advance.
func NextWriteTime(prev, now time.Time) time.Time {
	now = now.UTC().Truncate(time.Microsecond)
	if !prev.IsZero() && !now.After(prev) {
		return prev.UTC().Add(time.Microsecond)
	}
	return now
}

// ProductLocation is the resource path of a product.
func ProductLocation(id string) string {
	return "/products/" + id
}
