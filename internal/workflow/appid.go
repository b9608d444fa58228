package workflow

import "fmt"

// ApplicationID derives a human-readable application id from the posting's
// base prefix and its current application count. The sequence is the 1-based
// position of the new application, zero padded to four digits, e.g.
// "JOB1-0004" for a posting that already holds three applications.
//
// The id is only as unique as the count that feeds it: two submissions that
// read the same count would produce the same id. Submissions read the posting
// under a FOR UPDATE row lock, so concurrent count-then-append sequences on
// one posting serialize and never see the same count.
func ApplicationID(basePrefix string, existing int) string {
	return fmt.Sprintf("%s-%04d", basePrefix, existing+1)
}

// PostingPrefix is the base prefix used for applications of a posting.
func PostingPrefix(postingID uint) string {
	return fmt.Sprintf("JOB%d", postingID)
}
