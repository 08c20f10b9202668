package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"pydex/internal/config"
	"pydex/internal/extractor"
	"pydex/internal/generator"
	"pydex/internal/loader"
	"pydex/internal/model"
	"pydex/internal/resolver"
	"pydex/internal/wire"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pydex [files...]",
		Short: "Extract the API surface of Python code as structured JSON",
		Long: "pydex parses Python source files and emits their documentable API\n" +
			"surface (modules, classes, functions, variables, re-exports) as one\n" +
			"JSON document per module.",
		RunE: run,
	}

	configPath    string
	modules       []string
	packages      []string
	searchPath    []string
	discoverRoot  string
	excludes      []string
	listOnly      bool
	dumpTree      bool
	asMarkdown    bool
	commentBlocks bool
	expandNames   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "pydex.yaml", "Path to the configuration file")
	flags.StringArrayVarP(&modules, "module", "m", nil, "Module name to parse (repeatable)")
	flags.StringArrayVarP(&packages, "package", "p", nil, "Package name to parse recursively (repeatable)")
	flags.StringArrayVarP(&searchPath, "search-path", "I", nil, "Directory to search for modules (repeatable)")
	flags.StringVarP(&discoverRoot, "discover", "D", "", "Discover all modules and packages under a directory")
	flags.StringArrayVarP(&excludes, "exclude", "E", nil, "Glob pattern of module names to skip (repeatable)")
	flags.BoolVar(&listOnly, "list", false, "List the names of discovered modules without parsing")
	flags.BoolVar(&dumpTree, "dump-tree", false, "Print an indented object tree instead of JSON")
	flags.BoolVar(&asMarkdown, "markdown", false, "Render Markdown documentation instead of JSON")
	flags.BoolVar(&commentBlocks, "treat-comment-blocks-as-docstrings", false,
		"Recognize leading '#' comment blocks as docstrings")
	flags.BoolVar(&expandNames, "expand-names", false,
		"Expand local names into fully qualified dotted names")
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if loaded, err := config.LoadConfig(configPath); err == nil {
		cfg = loaded
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(searchPath) == 0 {
		searchPath = cfg.Project.SearchPath
	}
	if len(searchPath) == 0 {
		searchPath = []string{"."}
	}
	if len(excludes) == 0 {
		excludes = cfg.Project.Exclude
	}
	opts := extractor.Options{
		TreatCommentBlocksAsDocstrings: commentBlocks || cfg.Parser.TreatCommentBlocksAsDocstrings,
		ExpandNames:                    expandNames || cfg.Parser.ExpandNames,
	}
	if !asMarkdown && cfg.Output.Format == "markdown" {
		asMarkdown = true
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no input: specify --module, --package, --discover, or file arguments")
	}

	if listOnly {
		for _, file := range files {
			fmt.Println(file.Name)
		}
		return nil
	}

	ctx := context.Background()
	parsed := make([]*model.Module, 0, len(files))
	failures := 0
	for _, file := range files {
		mod, err := parseOne(ctx, file, opts)
		if err != nil {
			log.Printf("warning: %s: %v", file.Name, err)
			failures++
			continue
		}
		parsed = append(parsed, mod)
	}

	if opts.ExpandNames {
		resolver.Expand(parsed)
	}

	switch {
	case dumpTree:
		for _, mod := range parsed {
			fmt.Print(model.FormatTree(mod))
		}
	case asMarkdown:
		gen := generator.NewMarkdownGenerator()
		for _, mod := range parsed {
			fmt.Print(gen.RenderModule(mod))
		}
	default:
		if err := wire.DumpStream(os.Stdout, parsed); err != nil {
			return err
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d modules failed to parse", failures, len(files))
	}
	return nil
}

// collectFiles resolves positional file arguments and the module, package,
// and discovery flags into a flat list of source files, each tagged with its
// dotted module name.
func collectFiles(args []string) ([]loader.ModuleFile, error) {
	var files []loader.ModuleFile

	for _, path := range args {
		files = append(files, loader.ModuleFile{
			Name: extractor.ModuleNameForFile(path),
			Path: path,
		})
	}

	for _, name := range modules {
		// A name that exists on disk is taken as a literal file path.
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			files = append(files, loader.ModuleFile{
				Name: extractor.ModuleNameForFile(name),
				Path: name,
			})
			continue
		}
		path, err := loader.FindModule(name, searchPath)
		if err != nil {
			return nil, err
		}
		files = append(files, loader.ModuleFile{Name: name, Path: path})
	}

	for _, pkg := range packages {
		pkgFiles, err := loader.IterPackageFiles(pkg, searchPath)
		if err != nil {
			return nil, err
		}
		files = append(files, pkgFiles...)
	}

	if discoverRoot != "" {
		items, err := loader.Discover(discoverRoot, excludes)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if item.IsPackage {
				pkgFiles, err := loader.IterPackageFiles(item.Name, []string{discoverRoot})
				if err != nil {
					return nil, err
				}
				files = append(files, pkgFiles...)
			} else {
				files = append(files, loader.ModuleFile{Name: item.Name, Path: item.Path})
			}
		}
	}

	return files, nil
}

func parseOne(ctx context.Context, file loader.ModuleFile, opts extractor.Options) (*model.Module, error) {
	source, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, err
	}
	return extractor.ParseSource(ctx, source, filepath.ToSlash(file.Path), file.Name, opts)
}
