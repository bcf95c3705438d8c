// Package mocks provides testify mocks for the port interfaces.
// Constructors register AssertExpectations with t.Cleanup.
package mocks
