package cli

import (
	"fmt"

	"github.com/idilsaglam/taskboard/internal/board"
	"github.com/idilsaglam/taskboard/internal/model"
	"github.com/idilsaglam/taskboard/internal/ui"
)

// -------------- rendering helpers --------------

func renderBoard(b *board.Board, group bool) string {
	th := ui.Current()
	items := b.Items()
	done, pending := len(b.Completed()), len(b.Pending())

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		th.Title.Render("Tasks"),
		th.Success.Render(th.SymDone), done,
		th.Pending.Render(th.SymPending), pending,
		th.Accent.Render("Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, th.Muted.Render(ui.ProgressBar(done, len(items), 28)))
	lines = append(lines, th.Muted.Render("sort: "+b.SortMode().Label()))
	lines = append(lines, "")

	if group {
		lines = append(lines, groupLines(b)...)
	} else {
		lines = append(lines, flatLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, th.Muted.Render("Tip: add with `taskboard add \"Buy milk\"`"))
	return ui.Panel(lines)
}

func flatLines(items []model.Item) []string {
	th := ui.Current()
	if len(items) == 0 {
		return []string{th.Muted.Render("no tasks")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		box := th.Muted.Render(th.BoxUnchecked)
		desc := it.Description
		if it.Done() {
			box = th.Success.Render(th.BoxChecked)
		}
		if len([]rune(desc)) > 80 {
			desc = string([]rune(desc)[:77]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s  %s",
			th.Muted.Render(fmt.Sprintf("#%-3d", it.ID)), box, desc,
			th.Muted.Render(it.CreationDate.Local().Format("2006-01-02 15:04"))))
	}
	return out
}

func groupLines(b *board.Board) []string {
	th := ui.Current()
	section := func(name string, items []model.Item) []string {
		lines := []string{th.Accent.Render(name)}
		if len(items) == 0 {
			return append(lines, th.Muted.Render("(none)"))
		}
		return append(lines, flatLines(items)...)
	}
	lines := section("Pending", b.Pending())
	lines = append(lines, "")
	return append(lines, section("Completed", b.Completed())...)
}
