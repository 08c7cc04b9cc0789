// Package tui is a read-only terminal inspector over a decoded DWARF
// object: a tree view of each compilation unit's DIE forest on the left,
// and the line-number program rows for the whole object on the right.
//
// There is no stepping, no breakpoints, no running target — this reader
// has nothing to step through, only a static tree and table to browse.
package tui

import (
	"fmt"

	"github.com/eskaton/thyrion/pkg/dwarf"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Run launches the interactive inspector for data. It blocks until the
// user quits (q or Ctrl-C).
func Run(data *dwarf.Data) error {
	app := tview.NewApplication()

	tree := buildTree(data)
	lines := buildLineTable(data)

	help := tview.NewTextView().
		SetText(" q: quit   arrows: navigate   enter: expand/collapse ").
		SetTextColor(tcell.ColorGray)

	flex := tview.NewFlex().
		AddItem(tree, 0, 1, true).
		AddItem(lines, 0, 1, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(flex, 0, 1, true).
		AddItem(help, 1, 0, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	return app.SetRoot(root, true).SetFocus(tree).Run()
}

func buildTree(data *dwarf.Data) *tview.TreeView {
	root := tview.NewTreeNode("compilation units").SetSelectable(false)

	for _, cu := range data.CUs {
		cuNode := tview.NewTreeNode(fmt.Sprintf("CU @ %#x (v%d)", cu.Offset, cu.Version)).
			SetColor(tcell.ColorYellow)
		addEntryNode(cuNode, cu.Root)
		root.AddChild(cuNode)
	}

	tree := tview.NewTreeView().
		SetRoot(root).
		SetCurrentNode(root)
	tree.SetBorder(true).SetTitle(" DIE tree ")

	tree.SetSelectedFunc(func(node *tview.TreeNode) {
		node.SetExpanded(!node.IsExpanded())
	})

	return tree
}

func addEntryNode(parent *tview.TreeNode, e *dwarf.Entry) {
	label := e.Tag.String()
	if name := e.Name(); name != "" {
		label = fmt.Sprintf("%s %q", label, name)
	}
	node := tview.NewTreeNode(label).SetExpanded(false)
	for _, child := range e.Children {
		addEntryNode(node, child)
	}
	parent.AddChild(node)
}

func buildLineTable(data *dwarf.Data) *tview.Table {
	table := tview.NewTable().SetFixed(1, 0)
	table.SetBorder(true).SetTitle(" line-number program ")

	headers := []string{"address", "file", "line", "col", "stmt"}
	for col, h := range headers {
		table.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(tcell.ColorGreen))
	}

	row := 1
	for _, prog := range data.LinePrograms {
		for _, r := range prog.Rows {
			if r.EndSequence {
				continue
			}
			table.SetCell(row, 0, tview.NewTableCell(fmt.Sprintf("%#x", r.Address)))
			table.SetCell(row, 1, tview.NewTableCell(prog.FileName(r.File)))
			table.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d", r.Line)))
			table.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf("%d", r.Column)))
			table.SetCell(row, 4, tview.NewTableCell(fmt.Sprintf("%v", r.IsStmt)))
			row++
		}
	}

	return table
}
