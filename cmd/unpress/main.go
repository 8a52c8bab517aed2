// cmd/unpress/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"unpress/internal/config"
	"unpress/internal/content"
	"unpress/internal/gist"
	"unpress/internal/images"
	"unpress/internal/migrate"
	"unpress/internal/preview"
	"unpress/internal/server"
)

type appConfig struct {
	debug  bool
	port   int
	unsafe bool
}

const configFile = "migrate.yaml"

func main() {
	appCfg := appConfig{}
	// Global flags
	flag.BoolVar(&appCfg.debug, "debug", false, "Enable debug mode for verbose warning output.")
	flag.IntVar(&appCfg.port, "port", 1313, "Port for the local preview server.")
	flag.BoolVar(&appCfg.unsafe, "unsafe", false, "Disable HTML sanitization in the preview. Allows all raw HTML.")
	flag.Usage = printHelp
	flag.Parse()

	if err := run(appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Operation failed: %v\n", err)
		os.Exit(1)
	}
}

func run(appCfg appConfig) error {
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return nil
	}

	cfg := getConfig()

	switch args[0] {
	case "migrate":
		migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
		exportPath := migrateCmd.String("export", "", "WXR export file. Defaults to the export_file config entry.")
		dryRun := migrateCmd.Bool("dry-run", false, "Report what would be written without writing anything.")
		skipGists := migrateCmd.Bool("skip-gists", false, "Leave gist links in place instead of fetching them.")

		migrateCmd.Usage = func() {
			fmt.Println("Usage: unpress migrate [options]")
			fmt.Println("\nConvert a WordPress export into Markdown content plus redirect and taxonomy artifacts.")
			fmt.Println("\nOptions:")
			migrateCmd.PrintDefaults()
		}

		migrateCmd.Parse(args[1:])

		var fetcher gist.Fetcher
		if !*skipGists {
			fetcher = gist.NewClient()
		}

		fmt.Println("--- Migrating WordPress export ---")
		summary, err := migrate.Run(context.Background(), cfg, fetcher, migrate.Options{
			ExportPath: *exportPath,
			DryRun:     *dryRun,
			SkipGists:  *skipGists,
		})
		if err != nil {
			return err
		}
		printSummary(summary, appCfg.debug)
		return nil

	case "gists":
		gistsCmd := flag.NewFlagSet("gists", flag.ExitOnError)
		dryRun := gistsCmd.Bool("dry-run", false, "Report matches without rewriting files.")
		gistsCmd.Parse(args[1:])

		fmt.Println("--- Inlining gist links ---")
		dir := filepath.Join(cfg.ContentDir, cfg.BlogDir)
		summary, err := migrate.InlineGistsPass(context.Background(), dir, cfg.GistOwner, gist.NewClient(), *dryRun)
		if err != nil {
			return err
		}
		printPassSummary(summary, "gist blocks inlined", appCfg.debug)
		return nil

	case "codeblocks":
		blocksCmd := flag.NewFlagSet("codeblocks", flag.ExitOnError)
		dryRun := blocksCmd.Bool("dry-run", false, "Report matches without rewriting files.")
		only := blocksCmd.String("file", "", "Rewrite a single file instead of the whole blog directory.")
		blocksCmd.Parse(args[1:])

		fmt.Println("--- Rewriting legacy code blocks ---")
		dir := filepath.Join(cfg.ContentDir, cfg.BlogDir)
		summary, err := migrate.RewriteBlocksPass(dir, *only, *dryRun)
		if err != nil {
			return err
		}
		printPassSummary(summary, "code blocks fenced", appCfg.debug)
		return nil

	case "images":
		return runImages(cfg, args[1:])

	case "preview":
		fmt.Println("--- Rendering preview ---")
		pageCount, err := buildPreview(cfg, appCfg)
		if err != nil {
			return fmt.Errorf("preview build failed: %w", err)
		}
		fmt.Printf("✅ Success! Rendered %d pages into %s.\n", pageCount, cfg.PreviewDir)
		return nil

	case "serve":
		buildFunc := func() error {
			count, err := buildPreview(cfg, appCfg)
			if err != nil {
				return err
			}
			fmt.Printf("📄 Preview: %d pages rendered.\n", count)
			return nil
		}
		watchPaths := []string{cfg.ContentDir, cfg.StaticDir, configFile}
		return server.Run(appCfg.port, cfg.PreviewDir, watchPaths, buildFunc)

	default:
		flag.Usage()
	}

	return nil
}

func buildPreview(cfg config.Config, appCfg appConfig) (int, error) {
	opts := preview.Options{
		Unsafe:           appCfg.unsafe,
		CleanDestination: true,
	}
	return preview.Build(cfg.PreviewDir, cfg.ContentDir, cfg.StaticDir, opts)
}

// runImages mirrors every referenced upload, then verifies the local
// copies so a partial mirror is visible before the old site goes away.
func runImages(cfg config.Config, args []string) error {
	imagesCmd := flag.NewFlagSet("images", flag.ExitOnError)
	verifyOnly := imagesCmd.Bool("verify", false, "Check local copies without downloading.")
	imagesCmd.Parse(args)

	if cfg.SiteURL == "" && !*verifyOnly {
		return fmt.Errorf("site_url must be set in %s to mirror images", configFile)
	}

	dir := filepath.Join(cfg.ContentDir, cfg.BlogDir)
	files, err := content.ReadDir(dir)
	if err != nil {
		return err
	}
	refs := images.ExtractRefs(files)
	fmt.Printf("🔎 Found %d referenced uploads in %d files.\n", len(refs), len(files))

	mirror := images.NewMirror(cfg.SiteURL, cfg.StaticDir)

	if !*verifyOnly {
		stats, warnings := mirror.Download(context.Background(), refs)
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "⚠️  %s\n", w)
		}
		fmt.Printf("📥 Downloaded %d, skipped %d existing, %d failed (%d bytes).\n",
			stats.Downloaded, stats.Skipped, stats.Failed, stats.Bytes)
	}

	valid, missing := mirror.Verify(refs)
	if len(missing) > 0 {
		for _, ref := range missing {
			fmt.Fprintf(os.Stderr, "⚠️  missing: %s\n", ref)
		}
		fmt.Printf("❌ Verified %d of %d uploads; %d missing.\n", valid, len(refs), len(missing))
		return nil
	}
	fmt.Printf("✅ Verified all %d uploads.\n", valid)
	return nil
}

func printSummary(s *migrate.Summary, debug bool) {
	if s.DryRun {
		fmt.Println("--- Dry run: nothing was written ---")
	}
	fmt.Printf("📄 Posts: %d migrated, %d drafts skipped.\n", s.PostsMigrated, s.Drafts)
	if s.PagesMigrated > 0 {
		fmt.Printf("📄 Pages: %d migrated.\n", s.PagesMigrated)
	}
	if s.Skipped > 0 {
		fmt.Printf("🔎 Skipped %d items missing a title or body.\n", s.Skipped)
	}
	if s.Attachments > 0 {
		fmt.Printf("🖼  Attachments referenced: %d. Run 'unpress images' to mirror them.\n", s.Attachments)
	}
	for _, artifact := range s.Artifacts {
		fmt.Printf("🗂  Wrote %s.\n", artifact)
	}
	printWarnings(s.Warnings, debug)
	fmt.Println("✅ Migration complete.")
}

func printPassSummary(s *migrate.PassSummary, what string, debug bool) {
	fmt.Printf("📄 Scanned %d files, updated %d, %s: %d.\n", s.Files, s.Updated, what, s.Blocks)
	printWarnings(s.Warnings, debug)
	fmt.Println("✅ Done.")
}

func printWarnings(warnings []migrate.Warning, debug bool) {
	if len(warnings) == 0 {
		return
	}
	const shown = 10
	fmt.Printf("⚠️  %d warnings:\n", len(warnings))
	for i, w := range warnings {
		if !debug && i == shown {
			fmt.Printf("   ... and %d more (run with -debug to see all)\n", len(warnings)-shown)
			break
		}
		fmt.Printf("   %s\n", w)
	}
}

func getConfig() config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		// A present but unparseable config halts execution rather than
		// silently migrating with defaults.
		fmt.Fprintf(os.Stderr, "critical error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func printHelp() {
	fmt.Println("unpress - migrate a WordPress export to front-matter Markdown")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  unpress [global-flags] <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate [options]  Convert the WXR export. Use 'unpress migrate -h' for options.")
	fmt.Println("  gists              Inline remaining gist links in migrated content")
	fmt.Println("  codeblocks         Rewrite remaining [code] blocks in migrated content")
	fmt.Println("  images [-verify]   Mirror referenced uploads from the live site")
	fmt.Println("  preview            Render migrated content to HTML for inspection")
	fmt.Println("  serve              Serve the preview locally with auto-rebuild")
	fmt.Println()
	fmt.Println("Global Flags:")
	flag.PrintDefaults()
}
