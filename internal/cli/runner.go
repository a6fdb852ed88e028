package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tick/internal/config"
	"github.com/Makepad-fr/tick/internal/list"
	"github.com/Makepad-fr/tick/internal/logging"
	"github.com/Makepad-fr/tick/internal/model"
	"github.com/Makepad-fr/tick/internal/store/jsonstore"
	"github.com/Makepad-fr/tick/internal/store/sqlitestore"
	"github.com/Makepad-fr/tick/internal/tui"
	"github.com/Makepad-fr/tick/internal/ui"
)

// Options tune behavior from root flags.
type Options struct {
	Group bool // list grouped by pending/done
	Top   bool // insert new items at the top for this invocation
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		PrintHelp()
		return 0
	}

	app, err := setup(opt)
	if err != nil {
		ui.Fail("startup: " + err.Error())
		return 1
	}
	defer app.close()

	switch cmd {
	case "ls":
		return app.doList(opt)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: tick add <name...>")
			return 2
		}
		return app.doAdd(strings.Join(a, " "))

	case "paste":
		return app.doPaste(os.Stdin)

	case "done":
		n, ok := oneIndex(a, "done")
		if !ok {
			return 2
		}
		return app.doToggle(n)

	case "qty":
		if len(a) != 2 {
			ui.Fail("usage: tick qty <index> <delta>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("qty: not a number: " + a[0])
			return 2
		}
		d, err := strconv.Atoi(a[1])
		if err != nil {
			ui.Fail("qty: not a number: " + a[1])
			return 2
		}
		return app.doQuantity(n, d)

	case "edit":
		if len(a) < 2 {
			ui.Fail("usage: tick edit <index> <name...>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("edit: not a number: " + a[0])
			return 2
		}
		return app.doRename(n, strings.Join(a[1:], " "))

	case "mv":
		if len(a) != 2 {
			ui.Fail("usage: tick mv <from> <to>")
			return 2
		}
		from, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("mv: not a number: " + a[0])
			return 2
		}
		to, err := strconv.Atoi(a[1])
		if err != nil {
			ui.Fail("mv: not a number: " + a[1])
			return 2
		}
		return app.doMove(from, to)

	case "rm":
		if len(a) == 0 {
			ui.Fail("usage: tick rm <index...>")
			return 2
		}
		return app.doRemove(a)

	case "clear":
		return app.doClear()

	case "tui":
		if err := tui.Run(app.engine, app.cfg); err != nil {
			ui.Fail("tui: " + err.Error())
			return 1
		}
		return 0
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`tick - a checklist in your terminal

Usage:
  tick <subcommand> [args]

Subcommands:
  add <name...>        Add an item (duplicates are skipped)
  paste                Read items from stdin, split on newline/comma
  ls                   List items
  done <index>         Toggle done for item at 1-based index
  qty <index> <delta>  Adjust quantity (never below 1)
  edit <index> <name...>  Rename item
  mv <from> <to>       Move item between 1-based positions
  rm <index...>        Remove item(s)
  clear                Remove everything
  tui                  Interactive mode

Examples:
  tick add "Milk"
  printf 'Eggs, Bread\nButter' | tick paste
  tick done 2
  tick mv 3 1
`)
}

// app bundles the wired engine with its config and cleanup.
type app struct {
	engine *list.Engine
	cfg    config.Config
	close  func()
}

func setup(opt Options) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opt.Top {
		cfg.InsertAtTop = true
	}
	ui.SetTheme(cfg.Theme)

	log, err := logging.New(cfg.DataDir, cfg.Debug)
	if err != nil {
		return nil, err
	}

	cleanup := func() { _ = log.Sync() }
	var store list.Store
	switch cfg.Store {
	case "sqlite":
		s, err := sqlitestore.New(filepath.Join(cfg.DataDir, "tick.db"))
		if err != nil {
			return nil, err
		}
		store = s
		cleanup = func() {
			_ = s.Close()
			_ = log.Sync()
		}
	case "", "json":
		store = jsonstore.New(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}

	engine, err := list.New(store, log)
	if err != nil {
		cleanup()
		return nil, err
	}
	return &app{engine: engine, cfg: cfg, close: cleanup}, nil
}

// -------------- subcommand impls ----------------

func (a *app) doList(opt Options) int {
	items := a.engine.Items()

	// Header + progress
	d, p := stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(ui.Current().Title, "Checklist"),
		ui.C(ui.Current().Success, ui.Current().SymDone), d,
		ui.C(ui.Current().Pending, ui.Current().SymUnchecked), p,
		ui.C(ui.Current().Accent, "Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(ui.Current().Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if opt.Group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Muted, "Tip: paste a whole list with `tick paste`"))
	ui.Panel(lines)
	return 0
}

func (a *app) doAdd(name string) int {
	res := a.engine.Add(name, list.Config{InsertAtTop: a.cfg.InsertAtTop})
	if res.Skipped {
		ui.Note("skipped (empty or already on the list)")
		return 0
	}
	ui.OK("added " + res.Item.Name)
	return 0
}

func (a *app) doPaste(r io.Reader) int {
	b, err := io.ReadAll(r)
	if err != nil {
		ui.Fail("paste: " + err.Error())
		return 1
	}
	names := list.ParseBulk(string(b))
	n := a.engine.AddMany(names, list.Config{InsertAtTop: a.cfg.InsertAtTop})
	ui.OK(fmt.Sprintf("added %d item(s)", n))
	return 0
}

func (a *app) doToggle(userIndex int) int {
	it, ok := a.itemAt(userIndex)
	if !ok {
		return 2
	}
	if err := a.engine.Toggle(it.ID); err != nil {
		ui.Fail("done: " + err.Error())
		return 1
	}
	ui.OK("toggled " + it.Name)
	return 0
}

func (a *app) doQuantity(userIndex, delta int) int {
	it, ok := a.itemAt(userIndex)
	if !ok {
		return 2
	}
	if err := a.engine.AdjustQuantity(it.ID, delta); err != nil {
		ui.Fail("qty: " + err.Error())
		return 1
	}
	ui.OK("updated " + it.Name)
	return 0
}

func (a *app) doRename(userIndex int, name string) int {
	it, ok := a.itemAt(userIndex)
	if !ok {
		return 2
	}
	name = strings.TrimSpace(name)
	if name == "" {
		ui.Fail("edit: empty name")
		return 2
	}
	if err := a.engine.Rename(it.ID, name); err != nil {
		ui.Fail("edit: " + err.Error())
		return 1
	}
	ui.OK("renamed")
	return 0
}

func (a *app) doMove(from, to int) int {
	n := a.engine.Len()
	if from < 1 || from > n || to < 1 || to > n {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d -> %d", n, from, to))
		return 2
	}
	if err := a.engine.Move(from-1, to-1); err != nil {
		ui.Fail("mv: " + err.Error())
		return 1
	}
	ui.OK("moved")
	return 0
}

func (a *app) doRemove(args []string) int {
	items := a.engine.Items()
	ids := make([]uuid.UUID, 0, len(args))
	for _, s := range args {
		n, err := strconv.Atoi(s)
		if err != nil {
			ui.Fail("rm: not a number: " + s)
			return 2
		}
		if n < 1 || n > len(items) {
			ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(items), n))
			fmt.Fprintln(os.Stderr, ui.C("\033[90m", "Hint: run `tick ls` to see valid indexes"))
			return 2
		}
		ids = append(ids, items[n-1].ID)
	}
	a.engine.Delete(ids)
	ui.OK("removed")
	return 0
}

func (a *app) doClear() int {
	a.engine.Clear()
	ui.OK("cleared")
	return 0
}

// itemAt resolves a 1-based user index to an item.
func (a *app) itemAt(userIndex int) (model.Item, bool) {
	items := a.engine.Items()
	if userIndex < 1 || userIndex > len(items) {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(items), userIndex))
		fmt.Fprintln(os.Stderr, ui.C("\033[90m", "Hint: run `tick ls` to see valid indexes"))
		return model.Item{}, false
	}
	return items[userIndex-1], true
}

func oneIndex(a []string, cmd string) (int, bool) {
	if len(a) != 1 {
		ui.Fail("usage: tick " + cmd + " <index>")
		return 0, false
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		ui.Fail(cmd + ": not a number: " + a[0])
		return 0, false
	}
	return n, true
}

// -------------- rendering helpers --------------

func stats(items []model.Item) (done, pending int) {
	for _, it := range items {
		if it.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

func flatLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{ui.C(ui.Current().Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := fmt.Sprintf("%2d.", i+1)
		box := ui.Current().BoxUnchecked
		color := ui.Current().Muted
		if it.Done {
			box, color = ui.Current().BoxChecked, ui.Current().Success
		}
		name := it.Name
		if len(name) > 80 {
			name = name[:77] + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s%s",
			ui.C("\033[2m", idx), ui.C(color, box), ui.QtyBadge(it.Quantity), name))
	}
	return out
}

func groupLines(items []model.Item) []string {
	var pend, done []model.Item
	for _, it := range items {
		if it.Done {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, ui.C(ui.Current().Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
