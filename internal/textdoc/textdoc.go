// Package textdoc renders the markdown used by tooltips and option
// documentation into HTML and into plain text for widgets that cannot
// display markup.
package textdoc

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Doc is a piece of documentation in its three forms.
type Doc struct {
	Source string
	HTML   string
	Plain  string
}

// IsZero reports whether the document is empty.
func (d Doc) IsZero() bool {
	return d.Source == ""
}

func parse(src string) ast.Node {
	extensions := parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	return parser.NewWithExtensions(extensions).Parse([]byte(src))
}

// Render converts markdown source. Empty or blank source yields the zero Doc.
func Render(src string) Doc {
	if strings.TrimSpace(src) == "" {
		return Doc{}
	}
	doc := parse(src)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return Doc{
		Source: src,
		HTML:   strings.TrimSpace(string(markdown.Render(doc, renderer))),
		Plain:  plain(doc),
	}
}

// plain flattens the document: block elements become lines, list items are
// prefixed with "- ", emphasis and links keep only their text.
func plain(doc ast.Node) string {
	var lines []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			lines = append(lines, s)
		}
		cur.Reset()
	}
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Paragraph, *ast.Heading:
			if !entering {
				flush()
			}
		case *ast.ListItem:
			if entering {
				flush()
				cur.WriteString("- ")
			} else {
				flush()
			}
		case *ast.Text:
			// The parser keeps soft line breaks inside the literal.
			cur.WriteString(strings.ReplaceAll(string(n.Literal), "\n", " "))
		case *ast.Code:
			cur.Write(n.Literal)
		case *ast.CodeBlock:
			flush()
			for _, l := range strings.Split(strings.TrimRight(string(n.Literal), "\n"), "\n") {
				lines = append(lines, "  "+l)
			}
		case *ast.Softbreak:
			cur.WriteByte(' ')
		case *ast.Hardbreak:
			flush()
		}
		return ast.GoToNext
	})
	flush()
	return strings.Join(lines, "\n")
}
