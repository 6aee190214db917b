package tables

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Extract parses an HTML document and returns every table in depth-first
// document order. Parsing is tolerant in the browser manner: malformed
// markup yields a best-effort tree, not an error.
func Extract(document string) ([]*Table, error) {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return FromNode(doc), nil
}

// FromNode collects tables from an already parsed tree.
func FromNode(root *html.Node) []*Table {
	var tbls []*Table
	collectTables(root, &tbls)
	return tbls
}

// collectTables walks the tree in document order. A table is appended before
// its subtree is visited, so a nested table always gets a later index than
// the table containing it.
func collectTables(n *html.Node, tbls *[]*Table) {
	if n.Type == html.ElementNode && n.Data == "table" {
		*tbls = append(*tbls, parseTable(n, len(*tbls)))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectTables(c, tbls)
	}
}

// parseTable extracts the direct rows of a table element. The HTML parser
// inserts an implicit tbody around bare rows, so direct rows live either
// immediately under the table or under its thead, tbody, and tfoot sections.
// Rows of nested tables belong to the nested table and are not collected here.
func parseTable(tableNode *html.Node, index int) *Table {
	t := &Table{Index: index}

	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead", "tbody", "tfoot":
			for rc := c.FirstChild; rc != nil; rc = rc.NextSibling {
				if rc.Type == html.ElementNode && rc.Data == "tr" {
					t.Rows = append(t.Rows, parseRow(rc, len(t.Rows)))
				}
			}
		case "tr":
			t.Rows = append(t.Rows, parseRow(c, len(t.Rows)))
		}
	}

	return t
}

// parseRow extracts the cells of a single row. Rows with no cells are kept:
// the caller decides what to do with rows too short to use.
func parseRow(tr *html.Node, index int) Row {
	row := Row{Index: index}

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			row.Cells = append(row.Cells, Cell{
				HTML:     strings.TrimSpace(innerHTML(c)),
				IsHeader: c.Data == "th",
			})
		}
	}

	return row
}

// innerHTML serializes the markup inside n. Rendering a parsed tree to a
// buffer cannot fail.
func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		html.Render(&buf, c)
	}
	return buf.String()
}
