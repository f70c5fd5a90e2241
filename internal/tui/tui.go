// Package tui is the library browser: a filterable list of the animations in
// a directory with a live preview of the selection.
package tui

import (
	"bufio"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/Arknight38/Gif-Engine/animdecode"
	"github.com/Arknight38/Gif-Engine/internal/library"
	"github.com/Arknight38/Gif-Engine/internal/model"
	"github.com/Arknight38/Gif-Engine/internal/paint"
	"github.com/Arknight38/Gif-Engine/internal/playback"
	"github.com/Arknight38/Gif-Engine/internal/player"
	"github.com/Arknight38/Gif-Engine/internal/termio"
)

var (
	scanLibrary = library.Scan
	playFn      = player.Play
)

// cacheSize bounds how many decoded animations stay in memory.
const cacheSize = 8

const (
	minFPS = 1
	maxFPS = 100
)

func Run(opts model.Options) error {
	return runWith(termio.DefaultEnv(), opts)
}

func runWith(env termio.Env, opts model.Options) error {
	env = env.WithDefaults()
	playOpts, err := player.OptionsFrom(opts)
	if err != nil {
		return err
	}
	restore, err := env.EnterRaw()
	if err != nil {
		return err
	}
	defer restore()

	out := bufio.NewWriter(env.Out)
	termio.HideCursor(out)
	termio.ClearScreen(out)
	defer func() {
		termio.ClearImages(out)
		termio.ClearScreen(out)
		termio.MoveCursor(out, 1, 1)
		termio.ShowCursor(out)
		_ = out.Flush()
	}()

	inputCh := make(chan termio.InputEvent, 16)
	stopCh := make(chan struct{})
	defer close(stopCh)
	go termio.ReadInput(env.In, inputCh, stopCh)

	state := newState(env, opts, playOpts, inputCh)
	if cols, rows, err := env.GetSize(env.FD); err == nil {
		state.lastRows = rows
		state.lastCols = cols
	}
	rescan(state)
	render(state, out, state.lastRows, state.lastCols)
	state.renderDirty = false
	_ = out.Flush()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-env.SignalCh:
			return nil
		case ev := <-inputCh:
			if handleInput(state, ev, out) {
				return nil
			}
		case <-ticker.C:
		}

		if cols, rows, err := env.GetSize(env.FD); err == nil {
			if rows != state.lastRows || cols != state.lastCols {
				state.lastRows = rows
				state.lastCols = cols
				ensureVisible(state)
				termio.ClearScreen(out)
				state.renderDirty = true
				state.previewDirty = true
			}
		}

		if res, ok := state.loader.Poll(); ok {
			applyResult(state, res)
		}

		if state.renderDirty {
			render(state, out, state.lastRows, state.lastCols)
			state.renderDirty = false
			_ = out.Flush()
		}

		if advancePreview(state, out, time.Now()) {
			_ = out.Flush()
		}
	}
}

func newState(env termio.Env, opts model.Options, playOpts player.Options, input <-chan termio.InputEvent) *appState {
	root := opts.Dir
	if root == "" {
		root = "."
	}
	return &appState{
		root:        root,
		query:       opts.Query,
		mode:        modeBrowse,
		renderDirty: true,
		useColor:    opts.Color != "never",
		opts:        opts,
		playOpts:    playOpts,
		kind:        player.ResolveSurface(playOpts.Surface, env.Getenv),
		env:         env,
		input:       input,
		loader:      playback.NewLoader(opts.DecodeOptions()),
		cache:       map[string]playback.Result{},
		fps:         opts.FPS,
	}
}

// rescan reloads the directory listing and keeps the selection on the same
// file when it is still there.
func rescan(state *appState) {
	prev := selectedPath(state)
	entries, err := scanLibrary(state.root, library.ScanOptions{Recursive: state.opts.Recursive})
	if err != nil {
		state.status = "Scan error: " + err.Error()
		state.all = nil
	} else {
		state.all = entries
	}
	applyFilter(state, prev)
}

func applyFilter(state *appState, keep string) {
	state.entries = library.Filter(state.all, state.query)
	state.selected = 0
	for i, e := range state.entries {
		if e.Path == keep {
			state.selected = i
			break
		}
	}
	state.scroll = 0
	ensureVisible(state)
	switch {
	case len(state.all) == 0 && !strings.HasPrefix(state.status, "Scan error"):
		state.status = "No animations in " + state.root
	case len(state.entries) == 0 && len(state.all) > 0:
		state.status = "No matches"
	case len(state.entries) > 0:
		state.status = fmt.Sprintf("%d animations", len(state.entries))
	}
	loadSelected(state)
	state.renderDirty = true
}

func selectedPath(state *appState) string {
	if state.selected < 0 || state.selected >= len(state.entries) {
		return ""
	}
	return state.entries[state.selected].Path
}

// loadSelected shows the cached decode of the selection or starts decoding it.
func loadSelected(state *appState) {
	path := selectedPath(state)
	if path == "" {
		state.loader.Cancel()
		setCurrent(state, nil)
		return
	}
	if state.current != nil && state.current.Path == path {
		return
	}
	if res, ok := state.cache[path]; ok {
		state.loader.Cancel()
		setCurrent(state, &res)
		return
	}
	setCurrent(state, nil)
	state.loader.Start(path)
	state.status = "Loading " + filepath.Base(path) + "..."
	state.renderDirty = true
}

func applyResult(state *appState, res playback.Result) {
	if res.Path != selectedPath(state) {
		return
	}
	if res.Err != nil {
		state.status = "Decode error: " + res.Err.Error()
		setCurrent(state, nil)
		state.renderDirty = true
		return
	}
	if len(state.cache) >= cacheSize {
		for k := range state.cache {
			delete(state.cache, k)
			break
		}
	}
	state.cache[res.Path] = res
	setCurrent(state, &res)
	state.status = describe(res)
	state.renderDirty = true
}

func describe(res playback.Result) string {
	info := res.Info
	return fmt.Sprintf("%s  %dx%d  %d frames  %.2fs  %.1f fps",
		filepath.Base(res.Path), info.Width, info.Height, info.FrameCount, info.Duration.Seconds(), info.FPS())
}

func setCurrent(state *appState, res *playback.Result) {
	releasePreview(state)
	state.current = res
	state.previewDirty = true
	state.renderDirty = true
}

func releasePreview(state *appState) {
	if state.painter != nil {
		player.ReleaseSurface(state.painter.Surface())
	}
	state.painter = nil
	state.clock = nil
	state.buffer = nil
}

func handleInput(state *appState, ev termio.InputEvent, out *bufio.Writer) bool {
	if ev.Kind == termio.KeyCtrlC {
		return true
	}

	switch state.mode {
	case modeQuery:
		switch ev.Kind {
		case termio.KeyRune:
			state.query += string(ev.Ch)
			applyFilter(state, selectedPath(state))
		case termio.KeyBackspace:
			if len(state.query) > 0 {
				state.query = state.query[:len(state.query)-1]
				applyFilter(state, selectedPath(state))
			}
		case termio.KeyEnter, termio.KeyEsc:
			state.mode = modeBrowse
			state.renderDirty = true
		}
	case modeBrowse:
		switch ev.Kind {
		case termio.KeyRune:
			return handleBrowseRune(state, ev.Ch)
		case termio.KeyUp:
			moveSelection(state, -1)
		case termio.KeyDown:
			moveSelection(state, 1)
		case termio.KeyEnter:
			playSelected(state, out)
		case termio.KeyEsc:
			if state.query != "" {
				state.query = ""
				applyFilter(state, selectedPath(state))
			}
		}
	}
	return false
}

func handleBrowseRune(state *appState, ch rune) bool {
	switch ch {
	case 'q':
		return true
	case '/':
		state.mode = modeQuery
		state.status = "Type to filter, Enter to browse"
		state.renderDirty = true
	case '+', '=':
		stepFPS(state, 1)
	case '-', '_':
		stepFPS(state, -1)
	case '0':
		state.fps = 0
		state.previewDirty = true
		state.status = "Authored timing"
		state.renderDirty = true
	case 'r':
		state.cache = map[string]playback.Result{}
		state.current = nil
		releasePreview(state)
		rescan(state)
	case 's':
		saveStill(state)
	case 'f':
		revealLast(state)
	case 'j':
		moveSelection(state, 1)
	case 'k':
		moveSelection(state, -1)
	default:
		if ch >= 0x20 {
			state.mode = modeQuery
			state.query = string(ch)
			applyFilter(state, selectedPath(state))
		}
	}
	return false
}

func moveSelection(state *appState, delta int) {
	next := state.selected + delta
	if next < 0 || next >= len(state.entries) {
		return
	}
	state.selected = next
	ensureVisible(state)
	loadSelected(state)
	state.renderDirty = true
}

// stepFPS nudges the preview rate, starting from the animation's own average
// rate the first time.
func stepFPS(state *appState, delta float64) {
	fps := state.fps
	if fps <= 0 {
		fps = 10
		if state.current != nil {
			if f := math.Round(state.current.Info.FPS()); f > 0 {
				fps = f
			}
		}
	}
	fps = math.Max(minFPS, math.Min(maxFPS, fps+delta))
	state.fps = fps
	if state.buffer != nil {
		state.buffer.OverrideDelay(playback.FrameDelayForFPS(fps))
	}
	state.status = fmt.Sprintf("%.0f fps", fps)
	state.renderDirty = true
}

func playSelected(state *appState, out *bufio.Writer) {
	if state.current == nil {
		state.status = "Nothing loaded yet"
		state.renderDirty = true
		return
	}
	res := state.current
	opts := state.playOpts
	opts.FPS = state.fps

	releasePreview(state)
	_ = out.Flush()
	err := playFn(state.env, player.Animation{Name: res.Path, Info: res.Info, Frames: res.Frames}, opts, state.input)
	if err != nil {
		state.status = "Play error: " + err.Error()
	}
	termio.HideCursor(out)
	termio.ClearScreen(out)
	state.previewDirty = true
	state.renderDirty = true
}

func ensureVisible(state *appState) {
	listHeight := state.lastRows - 4
	if listHeight < 0 {
		listHeight = 0
	}
	if state.selected < state.scroll {
		state.scroll = state.selected
	}
	if state.selected >= state.scroll+listHeight {
		state.scroll = state.selected - listHeight + 1
	}
	if state.scroll < 0 {
		state.scroll = 0
	}
}

// layoutScreen splits the content area into the list and the preview box.
// Wide terminals put the preview on the left; narrow ones stack it under the
// list.
func layoutScreen(rows, cols int) (list box, preview box, ok bool) {
	statusRow := rows - 2
	contentTop := 2
	contentBottom := statusRow - 1
	if statusRow < 2 || contentBottom < contentTop || cols <= 0 {
		return box{}, box{}, false
	}
	contentHeight := contentBottom - contentTop + 1

	if cols >= 80 && rows >= 14 {
		rightWidth := max(28, cols/3)
		if rightWidth > cols-2 {
			rightWidth = cols - 2
		}
		leftWidth := cols - rightWidth - 2
		list = box{row: contentTop, col: leftWidth + 2, cols: rightWidth, rows: contentHeight}
		preview = box{row: contentTop, col: 1, cols: leftWidth, rows: contentHeight}
		return list, preview, true
	}

	previewRows := contentHeight / 2
	if previewRows < 6 {
		previewRows = min(6, contentHeight)
	}
	if previewRows > contentHeight-2 {
		previewRows = max(0, contentHeight-2)
	}
	listRows := max(0, contentHeight-previewRows-1)
	list = box{row: contentTop, col: 1, cols: cols, rows: listRows}
	preview = box{row: contentTop + listRows + 1, col: 1, cols: cols, rows: previewRows}
	return list, preview, true
}

func render(state *appState, out *bufio.Writer, rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}

	header := styleIf(state.useColor, model.AppName, "\x1b[1m", "\x1b[36m")
	header += styleIf(state.useColor, " · "+state.root, "\x1b[90m")
	writeLineAt(out, 1, 1, header, cols)

	list, preview, ok := layoutScreen(rows, cols)
	if !ok {
		for row := 1; row <= rows; row++ {
			writeLineAt(out, row, 1, "", cols)
		}
		return
	}

	if preview.col != list.col {
		for i := 0; i < preview.rows; i++ {
			writeLineAt(out, preview.row+i, preview.col, "", preview.cols)
		}
	} else {
		label := styleIf(state.useColor, "Preview", "\x1b[90m")
		writeLineAt(out, preview.row-1, 1, label, cols)
		for i := 0; i < preview.rows; i++ {
			writeLineAt(out, preview.row+i, 1, "", cols)
		}
	}

	for i := 0; i < list.rows; i++ {
		idx := state.scroll + i
		if idx >= 0 && idx < len(state.entries) {
			label := state.entries[idx].Label()
			prefix := "  "
			if idx == state.selected {
				prefix = styleIf(state.useColor, "> ", "\x1b[1m", "\x1b[36m")
				label = styleIf(state.useColor, label, "\x1b[1m")
			}
			writeLineAt(out, list.row+i, list.col, prefix+label, list.cols)
		} else {
			writeLineAt(out, list.row+i, list.col, "", list.cols)
		}
	}

	statusRow, queryRow, hintsRow := rows-2, rows-1, rows
	status := state.status
	writeLineAt(out, statusRow, 1, styleIf(state.useColor, status, "\x1b[90m"), cols)

	queryLabel := styleIf(state.useColor, "Filter: ", "\x1b[90m")
	if state.mode == modeQuery {
		queryLabel = styleIf(state.useColor, "Filter: ", "\x1b[1m", "\x1b[33m")
	}
	writeLineAt(out, queryRow, 1, queryLabel+state.query, cols)

	hints := "Enter play  / filter  +/- fps  0 reset  s still  r rescan  q quit"
	if state.fps > 0 {
		hints = fmt.Sprintf("[%.0f fps]  %s", state.fps, hints)
	}
	writeLineAt(out, hintsRow, 1, styleIf(state.useColor, hints, "\x1b[90m"), cols)

	if preview != state.previewBox {
		state.previewBox = preview
		state.previewDirty = true
	}
	drawPreview(state, out)
}

// drawPreview rebuilds the preview pipeline when the box or the animation
// changed, then repaints the frame on screen since the text pass above may
// have overwritten it.
func drawPreview(state *appState, out *bufio.Writer) {
	if state.current == nil || len(state.current.Frames) == 0 || state.previewBox.cols <= 0 || state.previewBox.rows <= 0 {
		releasePreview(state)
		return
	}
	if state.previewDirty || state.clock == nil {
		buildPreview(state, out)
		state.previewDirty = false
	}
	if f := state.buffer.Current(); f != nil {
		paintPreview(state, f)
	}
}

// buildPreview fits the current animation into the preview box and starts a
// fresh clock on it.
func buildPreview(state *appState, out *bufio.Writer) {
	releasePreview(state)
	res := state.current
	w, h := res.Info.Width, res.Info.Height
	if w <= 0 || h <= 0 {
		w, h = res.Frames[0].Width, res.Frames[0].Height
	}
	b := state.previewBox
	l := player.ComputeLayout(state.kind, w, h, 1, b.cols, b.rows, player.AlignCenter, 0, 0)
	l.Row += b.row - 1
	l.Col += b.col - 1

	frames := animdecode.Fit(res.Frames, l.Width, l.Height)
	owned := make([]animdecode.Frame, len(frames))
	copy(owned, frames)
	state.buffer = playback.NewBuffer(owned)
	if state.fps > 0 {
		state.buffer.OverrideDelay(playback.FrameDelayForFPS(state.fps))
	}
	state.clock = playback.NewClock(state.buffer, playback.DefaultQuantum)
	state.painter = paint.NewPainter(player.NewSurface(state.kind, out, l))
	state.layout = l
}

// advancePreview steps the preview clock and paints when a new frame is due.
// It reports whether anything was written.
func advancePreview(state *appState, out *bufio.Writer, now time.Time) bool {
	if state.clock == nil {
		if state.current == nil || state.previewBox.cols <= 0 {
			return false
		}
		buildPreview(state, out)
		state.previewDirty = false
	}
	frame, _ := state.clock.Step(now)
	if frame == nil {
		return false
	}
	paintPreview(state, frame)
	return true
}

func paintPreview(state *appState, f *animdecode.Frame) {
	if err := state.painter.Paint(f); err != nil {
		state.status = "Preview error: " + err.Error()
		state.renderDirty = true
	}
}
