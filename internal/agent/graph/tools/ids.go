package tools

import (
	"fmt"
	"regexp"
	"time"
)

// SynthesizedIDPattern matches ids produced by synthesizeID.
var SynthesizedIDPattern = regexp.MustCompile(`^EMP-\d{4}-\d{3}$`)

// synthesizeID builds EMP-<last 4 digits of unix millis>-<3 random digits>.
// It makes collisions unlikely, not impossible; callers re-check existence.
func synthesizeID(now time.Time, rand3 int) string {
	return fmt.Sprintf("EMP-%04d-%03d", now.UnixMilli()%10000, ((rand3%1000)+1000)%1000)
}
