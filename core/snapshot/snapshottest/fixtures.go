// Package snapshottest holds small snapshots shared by tests across packages.
package snapshottest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tristendillon/injscope/core/snapshot"
)

// Siblings has three elements a, b and c under one module injector "m" that
// provides X. a and b host the same directives; c does not.
const Siblings = `
injectors:
  - id: null-injector
    name: NullInjector
  - id: m
    name: M
    scopes: [environment]
    module: m
    parent: null-injector
modules:
  - id: m
    name: MModule
    providers: [X]
elements:
  - id: list
    tag: ul
    environment: m
  - id: a
    tag: li
    parent: list
    directives:
      - name: Item
        component: true
      - Highlight
  - id: b
    tag: li
    parent: list
    directives:
      - name: Item
        component: true
      - Highlight
  - id: c
    tag: li
    parent: list
    directives:
      - name: Item
        component: true
`

// Imports resolves Y on injector "root-inj" whose module Root imports Mid,
// which imports Imp, which declares Y.
const Imports = `
injectors:
  - id: null-injector
    name: NullInjector
  - id: root-inj
    name: R3Injector
    scopes: [environment, root]
    module: root
    parent: null-injector
modules:
  - id: root
    name: Root
    imports: [other, mid]
  - id: other
    name: Other
    providers: [Z]
  - id: mid
    name: Mid
    imports: [imp]
  - id: imp
    name: Imp
    providers: [Y]
elements:
  - id: host
    tag: app-host
    environment: root-inj
    directives:
      - name: HostComponent
        component: true
`

// Cycles links elements, injectors and modules into loops.
const Cycles = `
injectors:
  - id: e1
    name: E1
    scopes: [environment]
    module: m1
    parent: e2
  - id: e2
    name: E2
    scopes: [environment]
    parent: e1
modules:
  - id: m1
    name: M1
    imports: [m2]
  - id: m2
    name: M2
    imports: [m1]
elements:
  - id: x
    tag: x-el
    parent: y
    environment: e1
    directives: [X]
  - id: y
    tag: y-el
    parent: x
    directives: [Y]
`

// MustParse parses a snapshot or fails the test.
func MustParse(t testing.TB, data string) *snapshot.Snapshot {
	t.Helper()
	snap, err := snapshot.Parse([]byte(data))
	require.NoError(t, err)
	return snap
}

// Sample returns the snapshot written by `injscope init`.
func Sample(t testing.TB) *snapshot.Snapshot {
	t.Helper()
	return MustParse(t, string(snapshot.Sample))
}
