// Package main provides the tinypress CLI for compressing files and folders
// with the tinypress RLE and LZ77 stream formats.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
