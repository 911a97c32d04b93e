package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	oldVersion, oldRef, oldDate := BuildVersion, BuildRef, BuildDate
	defer func() {
		BuildVersion, BuildRef, BuildDate = oldVersion, oldRef, oldDate
	}()

	BuildVersion = "v1.2.3"
	BuildRef = "abc123"
	BuildDate = "2025-01-01"

	assert.Equal(t, "v1.2.3 (ref abc123, built 2025-01-01)", String())
}
