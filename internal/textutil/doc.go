// Package textutil turns free text, such as book titles returned by a search,
// into names usable as a single directory name.
package textutil
