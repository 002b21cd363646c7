package foldview

import "github.com/pamfold/pamfold/internal/bufdata"

// treeNode is one row of the fold tree. Level 2 folds become parent
// nodes with their level 1 folds as children; level 1 folds outside
// any level 2 range stay top-level leaves.
type treeNode struct {
	entry    bufdata.FoldEntry
	parent   *treeNode
	children []*treeNode
	expanded bool
	last     bool
}

func (n *treeNode) family() bool {
	return n.entry.Level > 1
}

// buildTree merges the flat fold list into a tree. The input carries
// level 1 entries first, then level 2, each sorted by start line, the
// order AllFolds produces. Families start collapsed.
func buildTree(entries []bufdata.FoldEntry) []*treeNode {
	var cards, families []bufdata.FoldEntry
	for _, e := range entries {
		if e.Level > 1 {
			families = append(families, e)
		} else {
			cards = append(cards, e)
		}
	}

	var roots []*treeNode
	fi := 0
	for _, c := range cards {
		for fi < len(families) && families[fi].Start <= c.Start {
			roots = append(roots, &treeNode{entry: families[fi]})
			fi++
		}
		node := &treeNode{entry: c}
		if len(roots) > 0 {
			if tail := roots[len(roots)-1]; tail.family() && c.End <= tail.entry.End {
				node.parent = tail
				tail.children = append(tail.children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	for ; fi < len(families); fi++ {
		roots = append(roots, &treeNode{entry: families[fi]})
	}

	for _, r := range roots {
		if len(r.children) > 0 {
			r.children[len(r.children)-1].last = true
		}
	}
	return roots
}

// visibleRows flattens the tree into the rows currently on screen,
// descending only into expanded families.
func visibleRows(roots []*treeNode) []*treeNode {
	var rows []*treeNode
	for _, r := range roots {
		rows = append(rows, r)
		if r.expanded {
			rows = append(rows, r.children...)
		}
	}
	return rows
}
