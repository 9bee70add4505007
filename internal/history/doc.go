// Package history stores the most-recently-used repository list.
package history
