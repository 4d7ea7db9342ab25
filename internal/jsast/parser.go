package jsast

type parser struct {
	toks []token
	i    int
}

// Parse recovers an expression forest from file text. For markup dialects
// only the script blocks are considered; positions always refer to the
// original text.
func Parse(text, path string) []Node {
	var roots []Node
	for _, region := range scriptRegions(text, path) {
		toks := lex(region.src, region.base)
		roots = append(roots, parseForest(toks)...)
	}
	return roots
}

// parseForest repeatedly parses expressions from the token stream, skipping
// a token whenever no expression starts at the current position.
func parseForest(toks []token) []Node {
	p := &parser{toks: toks}
	var roots []Node
	for !p.done() {
		before := p.i
		node := p.parseExpr()
		if node == nil {
			p.i = before + 1
			continue
		}
		roots = append(roots, node)
	}
	return roots
}

func (p *parser) done() bool { return p.i >= len(p.toks) }

func (p *parser) peek() (token, bool) {
	if p.done() {
		return token{}, false
	}
	return p.toks[p.i], true
}

func (p *parser) isPunct(op string) bool {
	t, ok := p.peek()
	return ok && t.kind == tokenPunct && t.value == op
}

// parseExpr parses a `+` chain. All other binary operators terminate the
// expression; the rules only consult concatenation shapes.
func (p *parser) parseExpr() Node {
	left := p.parsePostfix()
	if left == nil {
		return nil
	}
	for p.isPunct("+") {
		save := p.i
		p.i++
		right := p.parsePostfix()
		if right == nil {
			p.i = save
			break
		}
		left = &Add{
			span:  span{pos: left.Pos(), end: right.End()},
			Left:  left,
			Right: right,
		}
	}
	return left
}

// parsePostfix parses a primary expression followed by any number of
// property accesses, element accesses, and call argument lists.
func (p *parser) parsePostfix() Node {
	node := p.parsePrimary()
	if node == nil {
		return nil
	}
	for {
		switch {
		case p.isPunct(".") || p.isPunct("?."):
			save := p.i
			p.i++
			t, ok := p.peek()
			if !ok || t.kind != tokenIdent {
				p.i = save
				return node
			}
			p.i++
			node = &PropertyAccess{
				span:     span{pos: node.Pos(), end: t.end},
				Object:   node,
				Property: t.value,
			}
		case p.isPunct("["):
			p.i++
			index := p.parseExpr()
			end := p.skipTo("]")
			if index == nil {
				index = &Raw{span: span{pos: node.End(), end: end}}
			}
			node = &ElementAccess{
				span:   span{pos: node.Pos(), end: end},
				Object: node,
				Index:  index,
			}
		case p.isPunct("("):
			p.i++
			args, end := p.parseArgs()
			node = &Call{
				span:   span{pos: node.Pos(), end: end},
				Callee: node,
				Args:   args,
			}
		default:
			return node
		}
	}
}

// parseArgs parses a comma-separated argument list up to the matching `)`.
// Arguments the parser cannot model are recovered as raw nodes so that the
// argument positions stay aligned.
func (p *parser) parseArgs() (args []Node, end int) {
	for !p.done() {
		if p.isPunct(")") {
			end = p.toks[p.i].end
			p.i++
			return args, end
		}
		start := p.i
		arg := p.parseExpr()
		if arg == nil {
			arg = &Raw{
				span: span{pos: p.toks[start].pos, end: p.toks[start].end},
				Text: p.toks[start].text,
			}
			p.i = start + 1
		}
		// Consume whatever the tolerant parse left behind in this argument.
		rawEnd := p.skipArg()
		if rawEnd > arg.End() {
			arg = &Raw{span: span{pos: arg.Pos(), end: rawEnd}}
		}
		args = append(args, arg)
		if p.isPunct(",") {
			p.i++
		}
	}
	if len(p.toks) > 0 {
		end = p.toks[len(p.toks)-1].end
	}
	return args, end
}

// skipArg advances to the next top-level `,` or the closing `)` and returns
// the end offset of the last token skipped (or -1 when nothing was skipped).
func (p *parser) skipArg() int {
	depth := 0
	end := -1
	for !p.done() {
		t := p.toks[p.i]
		if t.kind == tokenPunct {
			switch t.value {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				// An unbalanced close means the argument context ended.
				if depth == 0 {
					return end
				}
				depth--
			case ",":
				if depth == 0 {
					return end
				}
			}
		}
		end = t.end
		p.i++
	}
	return end
}

// skipTo advances past the next matching close punct at depth zero and
// returns its end offset.
func (p *parser) skipTo(close string) int {
	depth := 0
	end := 0
	for !p.done() {
		t := p.toks[p.i]
		end = t.end
		p.i++
		if t.kind != tokenPunct {
			continue
		}
		switch t.value {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			if depth == 0 {
				if t.value == close {
					return end
				}
				return end
			}
			depth--
		default:
			if t.value == close && depth == 0 {
				return end
			}
		}
	}
	return end
}

func (p *parser) parsePrimary() Node {
	t, ok := p.peek()
	if !ok {
		return nil
	}
	switch t.kind {
	case tokenString:
		p.i++
		return &StringLit{span: span{pos: t.pos, end: t.end}, Value: t.value}
	case tokenTemplate:
		p.i++
		tpl := &TemplateLit{
			span:    span{pos: t.pos, end: t.end},
			Statics: t.statics,
		}
		for _, slotToks := range t.slots {
			tpl.Slots = append(tpl.Slots, parseForest(slotToks)...)
		}
		return tpl
	case tokenIdent:
		p.i++
		return &Ident{span: span{pos: t.pos, end: t.end}, Name: t.value}
	case tokenNumber:
		p.i++
		return &Raw{span: span{pos: t.pos, end: t.end}, Text: t.text}
	case tokenPunct:
		if t.value == "(" {
			save := p.i
			p.i++
			inner := p.parseExpr()
			if inner == nil {
				p.i = save
				return nil
			}
			p.skipTo(")")
			return inner
		}
		return nil
	}
	return nil
}
