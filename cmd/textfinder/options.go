package main

import (
	"github.com/bethropolis/textfinder/internal/app"
	"github.com/bethropolis/textfinder/internal/config"
)

// Options is the textfinder command line.
type Options struct {
	Search        string  `short:"s" long:"search" description:"Text or pattern to search for"`
	Replace       *string `short:"r" long:"replace" description:"Replacement text; $1 and ${name} expand in regex mode"`
	Substitute    string  `short:"x" long:"substitute" description:"Substitute command /pattern/replacement/[gilI]"`
	All           bool    `short:"a" long:"all" description:"Replace every match instead of one"`
	Current       int     `short:"n" long:"current" default:"1" description:"1-based match to replace without --all"`
	Output        string  `short:"o" long:"output" description:"Write the edited document to this file"`
	InPlace       bool    `short:"i" long:"in-place" description:"Save edits back to the input files"`
	FromClipboard bool    `long:"from-clipboard" description:"Use the clipboard content as search text"`
	Copy          bool    `long:"copy" description:"Copy the current match to the clipboard"`
	Watch         bool    `short:"w" long:"watch" description:"Rescan files when they change on disk"`
	DryRun        bool    `long:"dry-run" description:"Print replacements without writing any file"`
	Context       int     `short:"C" long:"context" description:"Show this many lines around the current match"`

	Config config.Flags `group:"Configuration"`

	Args struct {
		Files []string `positional-arg-name:"FILE" required:"1"`
	} `positional-args:"yes"`
}

// Request converts the parsed flags into an app request.
func (o *Options) Request() app.Request {
	return app.Request{
		Files:         o.Args.Files,
		Search:        o.Search,
		Replace:       o.Replace,
		Substitute:    o.Substitute,
		ReplaceAll:    o.All,
		Current:       o.Current,
		Output:        o.Output,
		InPlace:       o.InPlace,
		FromClipboard: o.FromClipboard,
		CopyMatch:     o.Copy,
		Watch:         o.Watch,
		DryRun:        o.DryRun,
		Context:       o.Context,
	}
}

// usesClipboard reports whether the run needs the system clipboard.
func (o *Options) usesClipboard() bool {
	return o.FromClipboard || o.Copy
}
