package pdf

import (
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// span is a run of text with a single visual treatment
type span struct {
	text   string
	bold   bool
	italic bool
	link   string
	brk    bool
}

// parseSpans flattens the paragraph markup (bold, italics, links, hard
// breaks) into a span stream for the wrap engine
func parseSpans(text string) []span {
	p := parser.NewWithExtensions(parser.NoIntraEmphasis | parser.HardLineBreak)
	root := p.Parse([]byte(text))

	var spans []span
	bold, italic := 0, 0
	link := ""
	ast.WalkFunc(root, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Paragraph:
			// blank lines between blocks render as an empty line
			if entering && len(spans) > 0 {
				spans = append(spans, span{brk: true}, span{brk: true})
			}
		case *ast.Strong:
			if entering {
				bold++
			} else {
				bold--
			}
		case *ast.Emph:
			if entering {
				italic++
			} else {
				italic--
			}
		case *ast.Link:
			if entering {
				link = string(n.Destination)
			} else {
				link = ""
			}
		case *ast.Hardbreak:
			if entering {
				spans = append(spans, span{brk: true})
			}
		case *ast.Softbreak:
			if entering {
				spans = append(spans, span{text: " ", bold: bold > 0, italic: italic > 0, link: link})
			}
		case *ast.Text:
			if entering && len(n.Literal) > 0 {
				spans = append(spans, span{
					text:   string(n.Literal),
					bold:   bold > 0,
					italic: italic > 0,
					link:   link,
				})
			}
		}
		return ast.GoToNext
	})
	return spans
}

// token is one word of a paragraph. glue marks a token that follows its
// neighbor without an intervening space (a style change mid-word).
type token struct {
	text   string
	bold   bool
	italic bool
	link   string
	glue   bool
	brk    bool
}

func tokenize(spans []span) []token {
	var tokens []token
	prevTrailing := true
	for _, sp := range spans {
		if sp.brk {
			tokens = append(tokens, token{brk: true})
			prevTrailing = true
			continue
		}

		leading := strings.HasPrefix(sp.text, " ")
		trailing := strings.HasSuffix(sp.text, " ")
		words := strings.Fields(sp.text)
		if len(words) == 0 {
			if sp.text != "" {
				prevTrailing = true
			}
			continue
		}

		for i, w := range words {
			tokens = append(tokens, token{
				text:   w,
				bold:   sp.bold,
				italic: sp.italic,
				link:   sp.link,
				glue:   i == 0 && !leading && !prevTrailing,
			})
		}
		prevTrailing = trailing
	}
	return tokens
}
