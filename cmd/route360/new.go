package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/eringen/route360/scaffold"
)

// NewCmd writes a site skeleton into a new directory.
type NewCmd struct {
	Dir    string `arg:"" help:"Directory to create"`
	Name   string `help:"Site name (defaults to the directory name in title case)"`
	Author string `help:"Author name" default:"Anonymous"`
}

func (n *NewCmd) Run() error {
	name := n.Name
	if name == "" {
		name = scaffold.Title(filepath.Base(n.Dir))
	}

	fmt.Printf("Creating new route360 site: %s\n\n", n.Dir)
	created, err := scaffold.Generate(n.Dir, scaffold.Data{
		SiteName: name,
		Author:   n.Author,
		Date:     time.Now().Format("2006-01-02"),
	})
	for _, f := range created {
		fmt.Printf("  created %s\n", filepath.Join(n.Dir, f))
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Done! Next steps:")
	fmt.Println()
	fmt.Printf("  cd %s\n", n.Dir)
	fmt.Println("  route360 serve --watch")
	fmt.Println()
	fmt.Println("Write posts under content/posts/{slug}/{lang}.md and tags in data/tags.json.")
	return nil
}
