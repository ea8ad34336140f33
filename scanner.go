// seehuhn.de/go/pdfcore - the object model and content reader of a PDF library
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdfcore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
)

// TokenKind distinguishes keywords from values.
type TokenKind uint8

const (
	// TokenKeyword is a bare word which is not a number, a boolean or null,
	// for example a content stream operator.  Stray closing delimiters
	// are also reported as keywords.
	TokenKeyword TokenKind = iota + 1

	// TokenValue is a complete PDF value, including nested arrays and
	// dictionaries.
	TokenValue
)

// Token is one lexical unit read by a [Tokenizer].
type Token struct {
	Kind    TokenKind
	Keyword string
	Value   Value
}

func (tok Token) String() string {
	if tok.Kind == TokenKeyword {
		return tok.Keyword
	}
	return tok.Value.String()
}

// TokenizerOptions configures a [Tokenizer].
// A nil pointer selects the defaults.
type TokenizerOptions struct {
	// References enables the recognition of indirect references "n g R".
	// This is needed for object data but must be off for content streams.
	References bool
}

// Tokenizer splits PDF data into keywords and values.
// It is used both for object data and for content streams.
type Tokenizer struct {
	src    io.Reader
	srcErr error

	buf       []byte
	pos, used int
	total     int64 // number of bytes discarded before buf[0]

	refs     bool
	pending  []Token // tokens pushed back during reference detection
	deferred error
}

const (
	tokenizerBufSize = 4096
	maxNesting       = 256
	streamChunkSize  = 64 << 10
)

// NewTokenizer creates a new tokenizer which reads from r.
func NewTokenizer(r io.Reader, opt *TokenizerOptions) *Tokenizer {
	if opt == nil {
		opt = &TokenizerOptions{}
	}
	return &Tokenizer{
		src:  r,
		buf:  make([]byte, tokenizerBufSize),
		refs: opt.References,
	}
}

// Pos returns the number of bytes consumed so far.
func (t *Tokenizer) Pos() int64 {
	return t.total + int64(t.pos)
}

// Next reads the next token.  At the end of input, [io.EOF] is returned.
// Syntax errors are reported as [*MalformedFileError].
func (t *Tokenizer) Next() (Token, error) {
	tok, err := t.raw()
	if err != nil || !t.refs {
		return tok, err
	}
	if _, isInt := tok.Value.x.(Integer); !isInt {
		return tok, nil
	}

	tok2, err := t.raw()
	if err != nil {
		t.deferred = err
		return tok, nil
	}
	if _, isInt := tok2.Value.x.(Integer); !isInt {
		t.unread(tok2)
		return tok, nil
	}
	tok3, err := t.raw()
	if err != nil {
		t.deferred = err
		t.unread(tok2)
		return tok, nil
	}
	if tok3.Kind == TokenKeyword && tok3.Keyword == "R" {
		if ref, ok := makeReference(tok.Value.x, tok2.Value.x); ok {
			return Token{Kind: TokenValue, Value: Value{ref}}, nil
		}
	}
	t.unread(tok3)
	t.unread(tok2)
	return tok, nil
}

// ReadValue reads the next token and checks that it is a value.
func (t *Tokenizer) ReadValue() (Value, error) {
	pos := t.Pos()
	tok, err := t.Next()
	if err == io.EOF {
		return Value{}, &MalformedFileError{Pos: pos, Err: io.ErrUnexpectedEOF}
	} else if err != nil {
		return Value{}, err
	}
	if tok.Kind != TokenValue {
		return Value{}, &MalformedFileError{
			Pos: pos,
			Err: fmt.Errorf("expected value but found %q", tok.Keyword),
		}
	}
	return tok.Value, nil
}

// ReadKeyword reads the next token and checks that it is the given keyword.
func (t *Tokenizer) ReadKeyword(keyword string) error {
	pos := t.Pos()
	tok, err := t.Next()
	if err == io.EOF {
		return &MalformedFileError{Pos: pos, Err: io.ErrUnexpectedEOF}
	} else if err != nil {
		return err
	}
	if tok.Kind != TokenKeyword || tok.Keyword != keyword {
		return &MalformedFileError{
			Pos: pos,
			Err: fmt.Errorf("expected %q but found %s", keyword, tok),
		}
	}
	return nil
}

func (t *Tokenizer) unread(tok Token) {
	t.pending = append(t.pending, tok)
}

func (t *Tokenizer) raw() (Token, error) {
	if n := len(t.pending); n > 0 {
		tok := t.pending[n-1]
		t.pending = t.pending[:n-1]
		return tok, nil
	}
	if t.deferred != nil {
		err := t.deferred
		t.deferred = nil
		return Token{}, err
	}
	return t.scanToken(0)
}

func makeReference(a, b Native) (Reference, bool) {
	num, ok1 := a.(Integer)
	gen, ok2 := b.(Integer)
	if !ok1 || !ok2 || num < 0 || num > math.MaxUint32 || gen < 0 || gen > MaxGeneration {
		return 0, false
	}
	return NewReference(uint32(num), uint16(gen)), true
}

func (t *Tokenizer) scanToken(depth int) (Token, error) {
	t.SkipWhiteSpace()
	start := t.Pos()
	bb := t.peekN(2)
	if len(bb) == 0 {
		return Token{}, t.eofError()
	}

	switch {
	case bb[0] == '/':
		t.skipN(1)
		return valueToken(t.readName()), nil
	case bb[0] == '(':
		t.skipN(1)
		s, err := t.readString()
		if err != nil {
			return Token{}, err
		}
		return valueToken(s), nil
	case string(bb) == "<<":
		t.skipN(2)
		items, err := t.readComposite(depth+1, ">>")
		if err != nil {
			return Token{}, err
		}
		dict, err := makeDict(items)
		if err != nil {
			return Token{}, &MalformedFileError{Pos: start, Err: err}
		}
		return valueToken(dict), nil
	case bb[0] == '<':
		t.skipN(1)
		s, err := t.readHexString()
		if err != nil {
			return Token{}, err
		}
		return valueToken(s), nil
	case bb[0] == '[':
		t.skipN(1)
		items, err := t.readComposite(depth+1, "]")
		if err != nil {
			return Token{}, err
		}
		return valueToken(Array(items)), nil
	case string(bb) == ">>":
		t.skipN(2)
		return Token{Kind: TokenKeyword, Keyword: ">>"}, nil
	case class[bb[0]] == delimiter:
		t.skipN(1)
		return Token{Kind: TokenKeyword, Keyword: string(bb[:1])}, nil
	}

	word := t.readWord()
	c := word[0]
	if c >= '0' && c <= '9' || c == '.' || c == '-' || c == '+' {
		if x := parseNumber(word); x != nil {
			return valueToken(x), nil
		}
	}
	switch string(word) {
	case "true":
		return valueToken(Bool(true)), nil
	case "false":
		return valueToken(Bool(false)), nil
	case "null":
		return Token{Kind: TokenValue}, nil
	}
	return Token{Kind: TokenKeyword, Keyword: string(word)}, nil
}

func valueToken(x Native) Token {
	return Token{Kind: TokenValue, Value: Value{x}}
}

// readComposite reads the members of an array or dictionary, up to and
// including the closing delimiter.
func (t *Tokenizer) readComposite(depth int, end string) ([]Native, error) {
	if depth > maxNesting {
		return nil, &MalformedFileError{Pos: t.Pos(), Err: errTooDeep}
	}

	items := []Native{}
	for {
		t.SkipWhiteSpace()
		pos := t.Pos()
		bb := t.peekN(len(end))
		if len(bb) == 0 {
			return nil, &MalformedFileError{Pos: pos, Err: io.ErrUnexpectedEOF}
		}
		if string(bb) == end {
			t.skipN(len(end))
			return items, nil
		}

		tok, err := t.scanToken(depth)
		if err == io.EOF {
			return nil, &MalformedFileError{Pos: pos, Err: io.ErrUnexpectedEOF}
		} else if err != nil {
			return nil, err
		}

		if tok.Kind == TokenKeyword {
			k := len(items)
			if t.refs && tok.Keyword == "R" && k >= 2 {
				if ref, ok := makeReference(items[k-2], items[k-1]); ok {
					items = append(items[:k-2], ref)
					continue
				}
			}
			return nil, &MalformedFileError{
				Pos: pos,
				Err: fmt.Errorf("unexpected %q", tok.Keyword),
			}
		}
		items = append(items, tok.Value.x)
	}
}

func makeDict(items []Native) (Dict, error) {
	if len(items)%2 != 0 {
		return nil, errors.New("dictionary key without value")
	}
	dict := make(Dict, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		key, ok := items[i].(Name)
		if !ok {
			return nil, fmt.Errorf("invalid dictionary key %s", Format(items[i]))
		}
		if items[i+1] == nil {
			continue
		}
		dict[key] = items[i+1]
	}
	return dict, nil
}

// readWord reads a run of regular characters.  At least one byte
// must be available.
func (t *Tokenizer) readWord() []byte {
	b, _ := t.ReadByte()
	word := []byte{b}
	for {
		b, err := t.PeekByte()
		if err != nil || class[b] != regular {
			return word
		}
		t.pos++
		word = append(word, b)
	}
}

// readString reads a literal string, not including the leading parenthesis.
func (t *Tokenizer) readString() (String, error) {
	res := []byte{}
	bracketLevel := 1
	ignoreLF := false
	for {
		b, err := t.ReadByte()
		if err != nil {
			return nil, t.unexpectedEOF(err)
		}
		if ignoreLF && b == '\n' {
			ignoreLF = false
			continue
		}
		ignoreLF = false
		switch b {
		case '(':
			bracketLevel++
			res = append(res, b)
		case ')':
			bracketLevel--
			if bracketLevel == 0 {
				return String(res), nil
			}
			res = append(res, b)
		case '\r':
			res = append(res, '\n')
			ignoreLF = true
		case '\\':
			b, err = t.ReadByte()
			if err != nil {
				return nil, t.unexpectedEOF(err)
			}
			switch b {
			case 'n':
				res = append(res, '\n')
			case 'r':
				res = append(res, '\r')
			case 't':
				res = append(res, '\t')
			case 'b':
				res = append(res, '\b')
			case 'f':
				res = append(res, '\f')
			case '\n':
				// line continuation
			case '\r':
				ignoreLF = true
			case '0', '1', '2', '3', '4', '5', '6', '7':
				oct := b - '0'
				for range 2 {
					b, err = t.PeekByte()
					if err != nil || b < '0' || b > '7' {
						break
					}
					t.pos++
					oct = oct*8 + (b - '0')
				}
				res = append(res, oct)
			default:
				res = append(res, b)
			}
		default:
			res = append(res, b)
		}
	}
}

func (t *Tokenizer) readHexString() (String, error) {
	res := []byte{}
	first := true
	var hi byte
	for {
		pos := t.Pos()
		b, err := t.ReadByte()
		if err != nil {
			return nil, t.unexpectedEOF(err)
		}
		if b == '>' {
			break
		} else if class[b] == space {
			continue
		}
		d := hexDigit(b)
		if d == 255 {
			return nil, &MalformedFileError{
				Pos: pos,
				Err: fmt.Errorf("invalid character %q in hex string", b),
			}
		}
		if first {
			hi = d << 4
		} else {
			res = append(res, hi|d)
		}
		first = !first
	}
	if !first {
		res = append(res, hi)
	}
	return String(res), nil
}

// readName reads a name, not including the leading slash.
func (t *Tokenizer) readName() Name {
	var name []byte
	for {
		b, err := t.PeekByte()
		if err != nil || class[b] != regular {
			break
		}
		if b == '#' {
			digits := t.peekN(3)
			if len(digits) == 3 {
				hi, lo := hexDigit(digits[1]), hexDigit(digits[2])
				if hi != 255 && lo != 255 {
					name = append(name, hi<<4|lo)
					t.skipN(3)
					continue
				}
			}
		}
		name = append(name, b)
		t.pos++
	}
	return Name(name)
}

// SkipWhiteSpace skips white space and comments.
func (t *Tokenizer) SkipWhiteSpace() {
	for {
		b, err := t.PeekByte()
		if err != nil {
			return
		}
		if class[b] == space {
			t.pos++
		} else if b == '%' {
			for {
				b, err := t.PeekByte()
				if err != nil || b == '\n' || b == '\r' {
					break
				}
				t.pos++
			}
		} else {
			return
		}
	}
}

// ReadByte consumes and returns the next byte of input.
// This bypasses tokenization and is used for inline image data.
func (t *Tokenizer) ReadByte() (byte, error) {
	b, err := t.PeekByte()
	if err != nil {
		return 0, err
	}
	t.pos++
	return b, nil
}

// PeekByte returns the next byte of input without consuming it.
func (t *Tokenizer) PeekByte() (byte, error) {
	for t.pos >= t.used {
		err := t.refill()
		if err != nil {
			return 0, err
		}
	}
	return t.buf[t.pos], nil
}

// ReadFull reads exactly len(p) bytes of raw input.
func (t *Tokenizer) ReadFull(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if t.pos >= t.used {
			err := t.refill()
			if err != nil {
				return n, t.unexpectedEOF(err)
			}
		}
		k := copy(p[n:], t.buf[t.pos:t.used])
		t.pos += k
		n += k
	}
	return n, nil
}

// readN reads n bytes of raw input.  The result grows as data arrives,
// so a /Length taken from the input cannot cause a huge allocation.
func (t *Tokenizer) readN(n int64) ([]byte, error) {
	data := make([]byte, 0, min(n, streamChunkSize))
	for int64(len(data)) < n {
		k := int(min(n-int64(len(data)), streamChunkSize))
		start := len(data)
		data = slices.Grow(data, k)[:start+k]
		_, err := t.ReadFull(data[start:])
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

// peekN returns the next n bytes of input without consuming them.
// Near the end of input, fewer than n bytes may be returned.
func (t *Tokenizer) peekN(n int) []byte {
	for t.pos+n > t.used {
		err := t.refill()
		if err != nil {
			break
		}
	}
	end := min(t.pos+n, t.used)
	return t.buf[t.pos:end]
}

func (t *Tokenizer) skipN(n int) {
	for n > 0 {
		if t.pos >= t.used && t.refill() != nil {
			return
		}
		k := min(n, t.used-t.pos)
		t.pos += k
		n -= k
	}
}

// refill moves unread data to the start of the buffer and reads more
// input.  This is the only place where the underlying reader is called.
func (t *Tokenizer) refill() error {
	if t.srcErr != nil {
		return t.srcErr
	}

	t.total += int64(t.pos)
	t.used = copy(t.buf, t.buf[t.pos:t.used])
	t.pos = 0

	n, err := t.src.Read(t.buf[t.used:])
	t.used += n
	if err != nil {
		t.srcErr = err
	}
	if n == 0 {
		if err == nil {
			err = io.ErrNoProgress
		}
		return err
	}
	return nil
}

func (t *Tokenizer) eofError() error {
	if t.srcErr != nil && t.srcErr != io.EOF {
		return t.srcErr
	}
	return io.EOF
}

func (t *Tokenizer) unexpectedEOF(err error) error {
	if err == io.EOF {
		return &MalformedFileError{Pos: t.Pos(), Err: io.ErrUnexpectedEOF}
	}
	return err
}

var errTooDeep = errors.New("arrays and dictionaries nested too deeply")

// ParseValue parses a single PDF value from data.  Indirect references
// are recognized.  Trailing white space and comments are allowed.
func ParseValue(data []byte) (Value, error) {
	t := NewTokenizer(bytes.NewReader(data), &TokenizerOptions{References: true})
	v, err := t.ReadValue()
	if err != nil {
		return Value{}, err
	}
	pos := t.Pos()
	tok, err := t.Next()
	if err != io.EOF {
		if err == nil {
			err = &MalformedFileError{
				Pos: pos,
				Err: fmt.Errorf("unexpected %s after value", tok),
			}
		}
		return Value{}, err
	}
	return v, nil
}

// IndirectObject is the result of [Tokenizer.ReadIndirectObject].
type IndirectObject struct {
	Reference Reference
	Value     Value

	// Stream is the raw stream data, or nil if the object has no stream.
	Stream []byte
}

// ReadIndirectObject reads an object of the form "n g obj ... endobj".
// If the value is a dictionary followed by a stream, the stream length
// is taken from a direct /Length entry, or found by searching for the
// "endstream" keyword.
func (t *Tokenizer) ReadIndirectObject() (*IndirectObject, error) {
	start := t.Pos()
	numVal, err := t.ReadValue()
	if err != nil {
		return nil, err
	}
	genVal, err := t.ReadValue()
	if err != nil {
		return nil, err
	}
	ref, ok := makeReference(numVal.x, genVal.x)
	if !ok {
		return nil, &MalformedFileError{Pos: start, Err: errors.New("invalid object header")}
	}
	err = t.ReadKeyword("obj")
	if err != nil {
		return nil, err
	}

	v, err := t.ReadValue()
	if err != nil {
		return nil, err
	}
	res := &IndirectObject{Reference: ref, Value: v}

	pos := t.Pos()
	tok, err := t.Next()
	if err == io.EOF {
		return nil, &MalformedFileError{Pos: pos, Err: io.ErrUnexpectedEOF}
	} else if err != nil {
		return nil, err
	}
	if tok.Kind == TokenKeyword && tok.Keyword == "stream" {
		dict, isDict := v.TryGetDict()
		if !isDict {
			return nil, &MalformedFileError{Pos: pos, Err: errors.New("stream without dictionary")}
		}
		res.Stream, err = t.readStreamData(dict)
		if err != nil {
			return nil, err
		}
	} else if tok.Kind != TokenKeyword || tok.Keyword != "endobj" {
		return nil, &MalformedFileError{
			Pos: pos,
			Err: fmt.Errorf("expected \"endobj\" but found %s", tok),
		}
	} else {
		return res, nil
	}

	err = t.ReadKeyword("endobj")
	if err != nil {
		return nil, err
	}
	return res, nil
}

// readStreamData reads the stream data following the "stream" keyword,
// including the closing "endstream".
func (t *Tokenizer) readStreamData(dict Dict) ([]byte, error) {
	b, err := t.ReadByte()
	if err == nil && b == '\r' {
		b, err = t.ReadByte()
	}
	if err != nil || b != '\n' {
		return nil, &MalformedFileError{Pos: t.Pos(), Err: errors.New("missing end of line after \"stream\"")}
	}

	if length, ok := dict["Length"].(Integer); ok && length >= 0 {
		data, err := t.readN(int64(length))
		if err != nil {
			return nil, err
		}
		err = t.ReadKeyword("endstream")
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	marker := []byte("endstream")
	var data []byte
	for {
		c, err := t.ReadByte()
		if err != nil {
			return nil, t.unexpectedEOF(err)
		}
		data = append(data, c)
		if bytes.HasSuffix(data, marker) {
			data = data[:len(data)-len(marker)]
			data = bytes.TrimSuffix(data, []byte("\n"))
			data = bytes.TrimSuffix(data, []byte("\r"))
			return data, nil
		}
	}
}
