package version

import "fmt"

var GitCommit string
var GitTag string
var UserAgent string

// String is the human-readable version printed by the version commands.
func String() string {
	tag := GitTag
	if tag == "" {
		tag = "dev"
	}
	if GitCommit == "" {
		return tag
	}
	return fmt.Sprintf("%s+%s", tag, GitCommit)
}

func init() {
	UserAgent = fmt.Sprintf("binobj/%s", String())
}
