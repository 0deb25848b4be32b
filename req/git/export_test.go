package git

// Exported aliases for testing internal functions from
// the git_test package.

// LocalBranchNameForTest exposes localBranchName.
var LocalBranchNameForTest = localBranchName
