// Package testsupport provides fixtures shared by package tests: isolated
// config environments, corpus files, CLI execution with captured output and
// an opened vocabulary store.
package testsupport
