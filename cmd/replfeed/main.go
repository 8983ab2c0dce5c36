package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/duskline/replfeed/internal/config"
	"github.com/duskline/replfeed/internal/console"
	"github.com/duskline/replfeed/internal/feed"
	"github.com/duskline/replfeed/internal/feedtools"
	"github.com/duskline/replfeed/internal/lang"
	"github.com/duskline/replfeed/internal/source"
)

// CLI flags parsed from command line.
type cliFlags struct {
	File        string
	Cells       bool
	DryRun      bool
	ServeMCP    bool
	Addr        string
	ProjectRoot string
	Timeout     time.Duration
	Verbose     bool
	Version     bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("replfeed", flag.ContinueOnError)
	fs.StringVar(&flags.File, "file", "", "source file to feed into the console")
	fs.BoolVar(&flags.Cells, "cells", false, "feed cell by cell instead of line by line")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "echo programs instead of running an interpreter")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as MCP server exposing the feed tools")
	fs.StringVar(&flags.Addr, "addr", "localhost:8722", "listen address for the MCP server")
	fs.StringVar(&flags.ProjectRoot, "project-root", ".", "directory holding replfeed.yml")
	fs.DurationVar(&flags.Timeout, "timeout", 30*time.Second, "per-execution interpreter timeout")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(flags.ProjectRoot)
	if err != nil {
		return err
	}
	cfg.ApplyDefaults()
	if flags.Verbose {
		cfg.Verbose = true
	}

	lg, ver, err := cfg.LanguageVersion()
	if err != nil {
		return err
	}
	splitter, _ := lang.NewSplitter(lg, ver)

	var runner console.Runner
	if flags.DryRun {
		runner = &console.EchoRunner{}
	} else {
		runner = &console.SubprocessRunner{
			Path:    cfg.Interpreter,
			Args:    cfg.InterpreterArgs,
			Timeout: flags.Timeout,
		}
	}

	cons := console.NewBuffered(splitter, runner)
	doc := source.NewDocument("")
	doc.SetCellMarker(cfg.CellMarker)
	session := feed.NewSession(doc, cons, lg, lang.StaticResolver{V: ver}, cfg.NewlineString())
	defer session.Close()

	if flags.ServeMCP {
		svc := feedtools.NewFeedService(session, cons)
		if cfg.Verbose {
			log.Printf("serving MCP feed tools on %s", flags.Addr)
		}
		return feedtools.RunMCPServer(context.Background(), svc, flags.Addr)
	}

	if flags.File == "" {
		return fmt.Errorf("either -file or -serve-mcp is required")
	}
	data, err := os.ReadFile(flags.File)
	if err != nil {
		return err
	}
	session.Load(string(data))

	for !session.AtEnd() {
		if flags.Cells {
			session.SendCell()
		} else {
			session.SendLine()
		}
	}

	// The console can be momentarily idle between two queued statements, so
	// idle alone is not enough; the driver's queue must be empty too.
	ctx, cancel := context.WithTimeout(context.Background(), flags.Timeout)
	defer cancel()
	for {
		if err := cons.WaitIdle(ctx); err != nil {
			return fmt.Errorf("waiting for console: %w", err)
		}
		if session.Driver().Pending() == 0 && !cons.Busy() {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	for _, exec := range cons.History() {
		if cfg.Verbose {
			for _, line := range strings.Split(strings.TrimRight(exec.Program, "\n"), "\n") {
				fmt.Printf(">>> %s\n", line)
			}
		}
		if exec.Output != "" {
			fmt.Print(exec.Output)
			if !strings.HasSuffix(exec.Output, "\n") {
				fmt.Println()
			}
		}
		if exec.Err != nil {
			log.Printf("WARNING: execution failed: %v", exec.Err)
		}
	}

	if leftover := cons.Buffer(); strings.TrimSpace(leftover) != "" {
		log.Printf("WARNING: incomplete input left in console buffer: %q", leftover)
	}
	return nil
}
