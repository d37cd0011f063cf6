// Package correlation turns caller-supplied identifiers into the UUID that
// names one orchestration cycle and keys its staging files.
package correlation
