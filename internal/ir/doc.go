// Package ir is the in-memory form of a Codama root-node IDL.
//
// Type, value and count nodes are sealed interfaces: each concrete node
// implements an unexported marker method, so consumers dispatch with a type
// switch and the compiler rejects nodes from outside the package. Entity
// nodes (programs, accounts, instructions, defined types, errors and PDAs)
// are plain structs.
//
// ir imports nothing internal. Every other package builds on it.
package ir
