// Package idl loads root-node IDL documents from JSON or CUE.
//
// Documents are unified with an embedded CUE schema before decoding, so
// structural mistakes are reported with a file position. Semantic checks
// that CUE cannot express (name collisions, public keys, versions) run on
// the decoded tree.
package idl
