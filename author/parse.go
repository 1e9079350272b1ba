package author

// parser turns the DSL's token stream into a flat list of top-level
// calls, recursively evaluating nested calls (with_shift(...) and
// friends) into modifiedKey values as it goes.
type parser struct {
	lex       *lexer
	tok       token
	limits    Limits
	exprDepth int
}

func newParser(src string, limits Limits) (*parser, error) {
	var p = &parser{lex: newLexer(src), limits: limits}

	if err := p.advance(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *parser) advance() error {
	var t, err = p.lex.next()
	if err != nil {
		return err
	}

	p.tok = t

	return nil
}

func (p *parser) expect(kind tokenKind, what string) error {
	if p.tok.kind != kind {
		return &SyntaxError{Line: p.tok.line, Column: p.tok.column, Message: "expected " + what}
	}

	return p.advance()
}

// parseProgram parses the whole source into a flat sequence of
// top-level statements.
func (p *parser) parseProgram() ([]call, error) {
	var calls []call

	for p.tok.kind != tokEOF {
		var c, err = p.parseCall()
		if err != nil {
			return nil, err
		}

		calls = append(calls, c)

		if len(calls) > p.limits.MaxOperations {
			return nil, &ResourceLimitExceededError{LimitType: "max_operations"}
		}

		for p.tok.kind == tokSemicolon {
			if err = p.advance(); err != nil {
				return nil, err
			}
		}
	}

	return calls, nil
}

func (p *parser) parseCall() (call, error) {
	if p.tok.kind != tokIdent {
		return call{}, &SyntaxError{Line: p.tok.line, Column: p.tok.column, Message: "expected function name"}
	}

	var c = call{name: p.tok.text, line: p.tok.line, col: p.tok.column}

	if err := p.advance(); err != nil {
		return call{}, err
	}

	if err := p.expect(tokLParen, "'('"); err != nil {
		return call{}, err
	}

	if p.tok.kind != tokRParen {
		for {
			var v, err = p.parseArg()
			if err != nil {
				return call{}, err
			}

			c.args = append(c.args, v)

			if p.tok.kind != tokComma {
				break
			}

			if err = p.advance(); err != nil {
				return call{}, err
			}
		}
	}

	if err := p.expect(tokRParen, "')'"); err != nil {
		return call{}, err
	}

	return c, nil
}

func (p *parser) parseArg() (argValue, error) {
	p.exprDepth++
	defer func() { p.exprDepth-- }()

	if p.exprDepth > p.limits.MaxExprDepth {
		return nil, &ResourceLimitExceededError{LimitType: "max_expr_depth"}
	}

	switch p.tok.kind {
	case tokString:
		var s = p.tok.text

		return s, p.advance()
	case tokNumber:
		var n = p.tok.number

		return n, p.advance()
	case tokLBracket:
		return p.parseArray()
	case tokIdent:
		if p.tok.text == "true" || p.tok.text == "false" {
			var b = p.tok.text == "true"

			return b, p.advance()
		}

		var nested, err = p.parseCall()
		if err != nil {
			return nil, err
		}

		return p.evalNestedCall(nested)
	default:
		return nil, &SyntaxError{Line: p.tok.line, Column: p.tok.column, Message: "expected argument"}
	}
}

func (p *parser) parseArray() (argValue, error) {
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}

	var items []string

	if p.tok.kind != tokRBracket {
		for {
			if p.tok.kind != tokString {
				return nil, &SyntaxError{Line: p.tok.line, Column: p.tok.column, Message: "array elements must be string literals"}
			}

			items = append(items, p.tok.text)

			if err := p.advance(); err != nil {
				return nil, err
			}

			if p.tok.kind != tokComma {
				break
			}

			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}

	if err := p.expect(tokRBracket, "']'"); err != nil {
		return nil, err
	}

	return items, nil
}

// evalNestedCall resolves with_shift/with_ctrl/with_alt/with_win/
// with_mods immediately, since they are the only nested-call forms the
// grammar allows and their result always feeds directly into the
// enclosing map() call.
func (p *parser) evalNestedCall(c call) (argValue, error) {
	switch c.name {
	case "with_shift", "with_ctrl", "with_alt", "with_win":
		if len(c.args) != 1 {
			return nil, &SyntaxError{Line: c.line, Column: c.col, Message: c.name + " takes exactly one argument"}
		}

		var key, ok = c.args[0].(string)
		if !ok {
			return nil, &SyntaxError{Line: c.line, Column: c.col, Message: c.name + " argument must be a string"}
		}

		var mk = modifiedKey{key: key}

		switch c.name {
		case "with_shift":
			mk.shift = true
		case "with_ctrl":
			mk.ctrl = true
		case "with_alt":
			mk.alt = true
		case "with_win":
			mk.win = true
		}

		return mk, nil
	case "with_mods":
		if len(c.args) != 5 {
			return nil, &SyntaxError{Line: c.line, Column: c.col, Message: "with_mods takes exactly five arguments"}
		}

		var key, ok = c.args[0].(string)
		if !ok {
			return nil, &SyntaxError{Line: c.line, Column: c.col, Message: "with_mods first argument must be a string"}
		}

		var flags [4]bool

		for i := 0; i < 4; i++ {
			var b, bok = c.args[i+1].(bool)
			if !bok {
				return nil, &SyntaxError{Line: c.line, Column: c.col, Message: "with_mods boolean arguments must be true/false"}
			}

			flags[i] = b
		}

		return modifiedKey{key: key, shift: flags[0], ctrl: flags[1], alt: flags[2], win: flags[3]}, nil
	default:
		return nil, &SyntaxError{Line: c.line, Column: c.col, Message: "unknown nested function " + c.name}
	}
}
