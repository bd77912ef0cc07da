//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Search builds the CLI and runs one search, saving {keyword}_{category}.csv.
// Set CATEGORY and KEYWORD; SOURCE (feed or rest) is optional.
func Search() error {
	mg.Deps(Build)

	category, keyword := os.Getenv("CATEGORY"), os.Getenv("KEYWORD")
	if category == "" || keyword == "" {
		return fmt.Errorf("set CATEGORY and KEYWORD, e.g. CATEGORY=ransomware KEYWORD=healthcare mage search")
	}

	args := []string{"search", "--category", category, "--keyword", keyword, "--save"}
	if src := os.Getenv("SOURCE"); src != "" {
		args = append(args, "--source", src)
	}

	return sh.RunV(filepath.Join(binDir, binName), args...)
}

// Serve builds the CLI and starts the HTTP server on $ADDR (default :8080).
func Serve() error {
	mg.Deps(Build)
	args := []string{"serve"}
	if addr := os.Getenv("ADDR"); addr != "" {
		args = append(args, "--addr", addr)
	}
	return sh.RunV(filepath.Join(binDir, binName), args...)
}
