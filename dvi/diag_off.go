//go:build !dvitime

package dvi

const diagEnabled = false
