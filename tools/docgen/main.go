// Package main generates CLI reference documentation from the ikea command tree.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/donaldgifford/ikea-api-client/cmd/ikea/cmd"
)

// Output formats.
const (
	formatMarkdown = "markdown"
	formatMan      = "man"
	formatYAML     = "yaml"
)

const frontMatter = `---
title: %q
slug: %q
---

`

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated docs")
	format := flag.String("format", formatMarkdown, "output format: markdown, man or yaml")
	flag.Parse()

	if err := generate(cmd.Root(), *output, *format); err != nil {
		log.Fatalf("generating docs: %v", err)
	}

	fmt.Printf("CLI %s docs generated in %s/\n", *format, *output)
}

func generate(root *cobra.Command, dir, format string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	root.DisableAutoGenTag = true

	switch format {
	case formatMarkdown:
		return doc.GenMarkdownTreeCustom(root, dir, prependFrontMatter, linkHandler)
	case formatMan:
		return doc.GenManTree(root, &doc.GenManHeader{
			Title:   strings.ToUpper(root.Name()),
			Section: "1",
			Source:  "ikea-api-client " + cmd.Version,
		}, dir)
	case formatYAML:
		return doc.GenYamlTree(root, dir)
	default:
		return fmt.Errorf("unknown format %q (want markdown, man or yaml)", format)
	}
}

// prependFrontMatter gives each page a title such as "ikea cart show".
func prependFrontMatter(filename string) string {
	slug := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return fmt.Sprintf(frontMatter, strings.ReplaceAll(slug, "_", " "), slug)
}

// linkHandler makes links relative to the docs directory without the .md suffix.
func linkHandler(name string) string {
	return "../" + strings.TrimSuffix(name, filepath.Ext(name)) + "/"
}
