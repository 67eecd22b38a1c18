// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bethropolis/textfinder/internal/buffer"
	"github.com/bethropolis/textfinder/internal/config"
	"github.com/bethropolis/textfinder/internal/core"
	"github.com/bethropolis/textfinder/internal/core/clipboard"
	"github.com/bethropolis/textfinder/internal/core/find"
	"github.com/bethropolis/textfinder/internal/event"
	"github.com/bethropolis/textfinder/internal/highlight"
	"github.com/bethropolis/textfinder/internal/logger"
	"github.com/bethropolis/textfinder/internal/render"
	"github.com/bethropolis/textfinder/internal/theme"
	"github.com/bethropolis/textfinder/internal/types"
	"github.com/bethropolis/textfinder/internal/watcher"
)

// Options configures a new App.
type Options struct {
	Config     *config.Config
	ConfigPath string        // file re-read on change in watch mode
	Flags      *config.Flags // overrides re-applied after a config reload
	Out        io.Writer     // match listings and rewritten documents
	Status     io.Writer     // summaries
	// SystemClipboard backs --copy and --from-clipboard with the OS clipboard.
	SystemClipboard bool
}

// Request is one run of the finder over a set of files.
type Request struct {
	Files         []string
	Search        string
	Replace       *string // nil means report matches only
	Substitute    string  // /pattern/replacement/[flags]
	ReplaceAll    bool
	Current       int // 1-based match replaced when ReplaceAll is false
	Output        string
	InPlace       bool
	FromClipboard bool
	CopyMatch     bool
	Watch         bool
	DryRun        bool // report and print replacements, then revert them
	Context       int  // lines shown on each side of the current match
}

type document struct {
	editor  *core.Editor
	session *find.Session
}

// App wires documents, search sessions, highlighting and output together.
type App struct {
	cfg        *config.Config
	configPath string
	flags      *config.Flags

	eventManager *event.Manager
	finder       *find.Manager
	highlights   *highlight.Manager
	themes       *theme.Manager
	clipboard    *clipboard.Manager
	watcher      *watcher.Watcher

	// docs and byID are filled before any watcher goroutine runs.
	docs []*document
	byID map[string]*document

	outMu    sync.Mutex // guards out, status and renderer
	out      io.Writer
	status   io.Writer
	renderer *render.Renderer

	live atomic.Bool
}

// NewApp creates and initializes a new application instance.
func NewApp(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	status := opts.Status
	if status == nil {
		status = os.Stderr
	}

	a := &App{
		cfg:          cfg,
		configPath:   opts.ConfigPath,
		flags:        opts.Flags,
		eventManager: event.NewManager(),
		themes:       theme.NewManager(),
		byID:         make(map[string]*document),
		out:          out,
		status:       status,
	}
	if opts.SystemClipboard {
		a.clipboard = clipboard.NewManager(true)
	}

	a.finder = find.NewManager(find.OptionsFromConfig(cfg.Search, a.eventManager))
	a.finder.Attach(a.eventManager)
	a.highlights = highlight.NewManager(a.lookup, a.requestRedraw)
	a.highlights.Attach(a.eventManager)
	a.renderer = render.NewRenderer(a.loadTheme(cfg), cfg.Highlight.Color)
	a.subscribe()
	return a
}

// lookup resolves a context id for the highlight manager.
func (a *App) lookup(contextID string) (*find.Session, highlight.Document, bool) {
	doc, ok := a.byID[contextID]
	if !ok {
		return nil, nil, false
	}
	return doc.session, doc.editor, true
}

// loadTheme loads the user theme directory and the configured theme file.
// Failures keep the previous theme.
func (a *App) loadTheme(cfg *config.Config) *theme.Theme {
	if err := a.themes.LoadDir(theme.DefaultDir(config.AppName)); err != nil {
		logger.Warnf("App: %v", err)
	}
	if cfg.Highlight.ThemeFile != "" {
		if _, err := a.themes.LoadFile(cfg.Highlight.ThemeFile); err != nil {
			logger.Warnf("App: theme '%s' not loaded, keeping '%s': %v",
				cfg.Highlight.ThemeFile, a.themes.Current().Name, err)
		}
	}
	return a.themes.Current()
}

// Open loads path into a new editing context with its own search session.
func (a *App) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	ed := core.NewEditor(buffer.NewSliceBuffer())
	ed.SetEventManager(a.eventManager)
	if a.clipboard != nil {
		ed.SetClipboard(a.clipboard)
	}
	doc := &document{editor: ed, session: a.finder.OpenWithID(ed.ID(), ed)}
	a.docs = append(a.docs, doc)
	a.byID[ed.ID()] = doc

	if err := ed.Load(path); err != nil {
		a.eventManager.Dispatch(event.TypeContextClosed, event.ContextData{ContextID: ed.ID()})
		a.docs = a.docs[:len(a.docs)-1]
		delete(a.byID, ed.ID())
		return err
	}
	return nil
}

// Run opens every file of req, applies the search or replacement and
// reports the result. With req.Watch it keeps rescanning changed files
// until ctx is done.
func (a *App) Run(ctx context.Context, req Request) error {
	if err := req.validate(); err != nil {
		return err
	}
	for _, path := range req.Files {
		if err := a.Open(path); err != nil {
			return err
		}
	}

	search, sub, err := a.resolveSearch(req)
	if err != nil {
		return err
	}

	copied := false
	for _, doc := range a.docs {
		if err := a.process(doc, req, search, sub); err != nil {
			return err
		}
		if req.CopyMatch && !copied {
			copied, err = a.copyCurrent(doc)
			if err != nil {
				return err
			}
		}
	}

	if !req.Watch {
		return nil
	}
	return a.watch(ctx)
}

func (req Request) validate() error {
	if len(req.Files) == 0 {
		return errors.New("no input files")
	}
	if req.Output != "" && len(req.Files) > 1 {
		return errors.New("--output needs exactly one input file")
	}
	if req.Output != "" && req.InPlace {
		return errors.New("--output and --in-place are mutually exclusive")
	}
	if req.Substitute != "" && req.Replace != nil {
		return errors.New("--substitute and --replace are mutually exclusive")
	}
	if req.Current < 0 {
		return fmt.Errorf("invalid match number %d", req.Current)
	}
	if req.Context < 0 {
		return fmt.Errorf("invalid context size %d", req.Context)
	}
	return nil
}

// resolveSearch picks the search text from the substitute command, the
// clipboard or the plain search flag, in that order.
func (a *App) resolveSearch(req Request) (string, *find.Substitution, error) {
	if req.Substitute != "" {
		sub, err := find.ParseSubstitute(req.Substitute)
		if err != nil {
			return "", nil, err
		}
		return sub.Pattern, &sub, nil
	}

	search := req.Search
	if req.FromClipboard {
		if a.clipboard == nil {
			return "", nil, errors.New("clipboard is not enabled")
		}
		text, err := a.clipboard.Read()
		if err != nil {
			return "", nil, fmt.Errorf("read clipboard: %w", err)
		}
		search = strings.TrimRight(text, "\r\n")
	}
	if search == "" {
		return "", nil, find.ErrEmptyPattern
	}
	return search, nil, nil
}

func (a *App) process(doc *document, req Request, search string, sub *find.Substitution) error {
	s := doc.session
	s.SetVisible(true, "")

	var (
		result find.ReplaceResult
		err    error
	)
	switch {
	case sub != nil:
		s.SetOptions(sub.Options)
		s.SetSearchText(sub.Pattern)
		if !sub.Global {
			if err := advanceTo(s, req.Current); err != nil {
				return fmt.Errorf("%s: %w", doc.editor.FilePath(), err)
			}
		}
		result, err = sub.Run(s)
	case req.Replace != nil:
		s.SetSearchText(search)
		s.SetReplaceText(*req.Replace)
		if req.ReplaceAll {
			result, err = s.ReplaceAll(*req.Replace)
		} else {
			result, err = replaceNth(s, search, *req.Replace, req.Current)
		}
	default:
		s.SetSearchText(search)
		if err := a.printMatches(doc); err != nil {
			return err
		}
		return a.printContext(doc, req.Context)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", doc.editor.FilePath(), err)
	}
	return a.finishReplace(doc, req, result)
}

// advanceTo moves the current match to the 1-based match n.
func advanceTo(s *find.Session, n int) error {
	if n <= 1 {
		return nil
	}
	count := len(s.Cache().Matches)
	if n > count {
		return fmt.Errorf("match %d out of range: %d match(es)", n, count)
	}
	for i := 1; i < n; i++ {
		s.Next()
	}
	return nil
}

// replaceNth replaces the 1-based match n and reports it like a replace-all.
func replaceNth(s *find.Session, search, replace string, n int) (find.ReplaceResult, error) {
	before := len(s.Cache().Matches)
	result := find.ReplaceResult{Search: search, Replace: replace, BeforeCount: before}
	if before == 0 {
		return result, nil
	}
	if err := advanceTo(s, n); err != nil {
		return result, err
	}
	if err := s.ReplaceCurrent(replace); err != nil {
		return result, err
	}
	result.Changed = true
	result.ChangeCount = 1
	result.AfterCount = len(s.Cache().Matches)
	return result, nil
}

// finishReplace writes the edited document and the summary line.
func (a *App) finishReplace(doc *document, req Request, result find.ReplaceResult) error {
	path := doc.editor.FilePath()
	summary := fmt.Sprintf("%s: replaced %d of %d match(es), %d remaining",
		path, result.ChangeCount, result.BeforeCount, result.AfterCount)
	if req.DryRun {
		a.printSummary(summary + " (dry run)")
		return a.previewReplace(doc, result)
	}
	a.printSummary(summary)

	switch {
	case req.InPlace:
		if !result.Changed {
			return nil
		}
		if err := doc.editor.SaveBuffer(); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		logger.Infof("App: wrote %s", path)
	case req.Output != "":
		if err := doc.editor.SaveBuffer(req.Output); err != nil {
			return fmt.Errorf("save %s: %w", req.Output, err)
		}
		logger.Infof("App: wrote %s", req.Output)
	default:
		a.outMu.Lock()
		defer a.outMu.Unlock()
		if _, err := io.WriteString(a.out, doc.editor.Text()); err != nil {
			return err
		}
	}
	return nil
}

// previewReplace prints the edited document and undoes the edit, leaving
// the document and its session as they were before the replacement.
func (a *App) previewReplace(doc *document, result find.ReplaceResult) error {
	a.outMu.Lock()
	_, err := io.WriteString(a.out, doc.editor.Text())
	a.outMu.Unlock()
	if err != nil || !result.Changed {
		return err
	}
	if _, err := doc.editor.Undo(); err != nil {
		return fmt.Errorf("revert %s: %w", doc.editor.FilePath(), err)
	}
	logger.Debugf("App: reverted dry run on %s", doc.editor.FilePath())
	return nil
}

// copyCurrent copies the current match of doc, if any, to the clipboard.
func (a *App) copyCurrent(doc *document) (bool, error) {
	span, ok := doc.session.CurrentMatch()
	if !ok {
		return false, nil
	}
	doc.editor.ScrollTo(span, false)
	copied, err := doc.editor.CopySelection()
	if err != nil {
		return false, fmt.Errorf("copy match: %w", err)
	}
	return copied, nil
}

// printMatches lists every line of doc touched by a match.
func (a *App) printMatches(doc *document) error {
	regions := a.highlights.Regions(doc.editor.ID())
	path := doc.editor.FilePath()
	buf := doc.editor.GetBuffer()

	a.outMu.Lock()
	for _, lineIdx := range matchedLines(regions) {
		line, err := buf.Line(lineIdx)
		if err != nil {
			continue
		}
		if err := a.renderer.Match(a.out, path, lineIdx, line, highlight.ForLine(regions, lineIdx)); err != nil {
			a.outMu.Unlock()
			return err
		}
	}
	a.outMu.Unlock()

	cache := doc.session.Cache()
	a.printSummary(fmt.Sprintf("%s: %d match(es) for %q", path, len(cache.Matches), cache.Search))
	return nil
}

// contextWidth keeps the context view from scrolling sideways.
const contextWidth = 1 << 16

// printContext prints radius lines on each side of the current match of doc,
// using a view centered on the match the way an editor reveals it.
func (a *App) printContext(doc *document, radius int) error {
	if radius <= 0 {
		return nil
	}
	span, ok := doc.session.CurrentMatch()
	if !ok {
		return nil
	}
	height := 2*radius + 1
	doc.editor.SetViewSize(contextWidth, height)
	doc.editor.ScrollTo(span, true)
	top, _ := doc.editor.GetViewport()

	regions := a.highlights.Regions(doc.editor.ID())
	path := doc.editor.FilePath()
	buf := doc.editor.GetBuffer()

	a.outMu.Lock()
	defer a.outMu.Unlock()
	if _, err := fmt.Fprintln(a.out, "--"); err != nil {
		return err
	}
	for lineIdx := top; lineIdx < top+height && lineIdx < buf.LineCount(); lineIdx++ {
		line, err := buf.Line(lineIdx)
		if err != nil {
			break
		}
		if err := a.renderer.Match(a.out, path, lineIdx, line, highlight.ForLine(regions, lineIdx)); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) printSummary(text string) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.status, a.renderer.Styled("Summary", text))
}

// matchedLines returns the sorted line indices covered by regions.
func matchedLines(regions []types.HighlightRegion) []int {
	seen := make(map[int]struct{})
	for _, region := range regions {
		for line := region.Start.Line; line <= region.End.Line; line++ {
			seen[line] = struct{}{}
		}
	}
	lines := make([]int, 0, len(seen))
	for line := range seen {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// requestRedraw reprints a document once the initial run is done.
func (a *App) requestRedraw(contextID string) {
	if !a.live.Load() {
		return
	}
	doc, ok := a.byID[contextID]
	if !ok {
		return
	}
	if err := a.printMatches(doc); err != nil {
		logger.Warnf("App: print %s: %v", doc.editor.FilePath(), err)
	}
}

// watch reloads documents and the config file when they change on disk.
func (a *App) watch(ctx context.Context) error {
	w, err := watcher.New(watcher.DefaultDelay)
	if err != nil {
		return err
	}
	a.watcher = w

	for _, doc := range a.docs {
		ed := doc.editor
		if err := w.Watch(ed.FilePath(), func() { a.reloadDocument(ed) }); err != nil {
			return err
		}
	}
	if a.configPath != "" {
		if _, err := os.Stat(a.configPath); err == nil {
			path := a.configPath
			if err := w.Watch(path, func() {
				a.eventManager.Dispatch(event.TypeConfigReloaded, event.ConfigReloadedData{FilePath: path})
			}); err != nil {
				return err
			}
		}
	}

	a.live.Store(true)
	logger.Infof("App: watching %d file(s)", len(a.docs))
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			logger.Warnf("App: watcher: %v", err)
		}
	}
}

func (a *App) reloadDocument(ed *core.Editor) {
	if err := ed.Reload(); err != nil {
		logger.Warnf("App: reload %s: %v", ed.FilePath(), err)
	}
}

// Close stops the watcher and closes every editing context.
func (a *App) Close() error {
	var errs []error
	a.live.Store(false)
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, doc := range a.docs {
		a.eventManager.Dispatch(event.TypeContextClosed, event.ContextData{ContextID: doc.editor.ID()})
	}
	a.finder.Stop()
	return errors.Join(errs...)
}
