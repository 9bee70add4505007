// Package utils provides logging and configuration helpers shared by the
// command line surface.
package utils
