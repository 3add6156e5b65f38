package snapshot

import _ "embed"

// Sample is the snapshot written by `injscope init`.
//
//go:embed sample.yaml
var Sample []byte
