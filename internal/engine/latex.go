package engine

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMath and KindMathBlock identify TeX nodes in the markdown AST.
var (
	KindMath      = ast.NewNodeKind("Math")
	KindMathBlock = ast.NewNodeKind("MathBlock")
)

// Math is inline TeX: $...$ or $$...$$ inside a paragraph.
type Math struct {
	ast.BaseInline
	Display bool
	Literal []byte
}

func (n *Math) Kind() ast.NodeKind { return KindMath }

func (n *Math) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Literal": string(n.Literal)}, nil)
}

// MathBlock is display TeX between two lines holding only $$.
type MathBlock struct {
	ast.BaseBlock
}

func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }
func (n *MathBlock) IsRaw() bool        { return true }

func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type latexExtension struct{}

// Latex parses TeX delimiters and emits them untouched inside elements the
// KaTeX loader picks up.
var Latex goldmark.Extender = &latexExtension{}

func (e *latexExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&mathBlockParser{}, 700)),
		parser.WithInlineParsers(util.Prioritized(&mathInlineParser{}, 501)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&mathRenderer{}, 500)),
	)
}

type mathInlineParser struct{}

func (p *mathInlineParser) Trigger() []byte { return []byte{'$'} }

func (p *mathInlineParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 2 || line[0] != '$' {
		return nil
	}
	delim := 1
	if line[1] == '$' {
		delim = 2
	}
	rest := line[delim:]

	end := -1
	if delim == 2 {
		end = bytes.Index(rest, []byte("$$"))
	} else {
		for i := 0; i < len(rest); i++ {
			if rest[i] == '\\' {
				i++
				continue
			}
			if rest[i] == '$' {
				end = i
				break
			}
		}
	}
	if end <= 0 {
		return nil
	}
	content := rest[:end]
	if delim == 1 {
		// Keeps prices like "$5 and $10" as text.
		if util.IsSpace(content[0]) || util.IsSpace(content[len(content)-1]) {
			return nil
		}
		if after := end + 1; after < len(rest) && rest[after] >= '0' && rest[after] <= '9' {
			return nil
		}
	}

	block.Advance(delim + end + delim)
	return &Math{Display: delim == 2, Literal: append([]byte(nil), content...)}
}

type mathBlockParser struct{}

func (b *mathBlockParser) Trigger() []byte { return []byte{'$'} }

func (b *mathBlockParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !isMathFence(line[pos:]) {
		return nil, parser.NoChildren
	}
	advanceLine(reader, line, segment)
	return &MathBlock{}, parser.NoChildren
}

func (b *mathBlockParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if isMathFence(bytes.TrimLeft(line, " \t")) {
		advanceLine(reader, line, segment)
		return parser.Close
	}
	node.Lines().Append(segment)
	advanceLine(reader, line, segment)
	return parser.Continue | parser.NoChildren
}

func (b *mathBlockParser) Close(ast.Node, text.Reader, parser.Context) {}
func (b *mathBlockParser) CanInterruptParagraph() bool                 { return true }
func (b *mathBlockParser) CanAcceptIndentedLine() bool                 { return false }

// advanceLine consumes line up to its newline. The last line of a document
// may have none.
func advanceLine(reader text.Reader, line []byte, segment text.Segment) {
	n := segment.Len()
	if len(line) > 0 && line[len(line)-1] == '\n' {
		n--
	}
	reader.Advance(n)
}

func isMathFence(line []byte) bool {
	return bytes.HasPrefix(line, []byte("$$")) && util.IsBlank(line[2:])
}

type mathRenderer struct{}

func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMath, r.renderMath)
	reg.Register(KindMathBlock, r.renderMathBlock)
}

func (r *mathRenderer) renderMath(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Math)
	class := "math math-inline"
	if n.Display {
		class = "math math-display"
	}
	_, _ = w.WriteString(`<span class="` + class + `">`)
	_, _ = w.Write(util.EscapeHTML(n.Literal))
	_, _ = w.WriteString("</span>")
	return ast.WalkSkipChildren, nil
}

func (r *mathRenderer) renderMathBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<div class="math math-display">`)
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(seg.Value(source)))
	}
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}
