// Package internal contains infrastructure shared by the rebelframe
// packages: logging, the UI event loop and hardware key input.
// Types and functions in this package are not part of the public API.
package internal
