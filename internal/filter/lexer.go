// Package filter implements the filter expression language used by saved
// filters and listing queries.
//
// The language supports:
//   - Date predicates: today, tomorrow, overdue, no date, 7 days, jan 15
//   - Priorities: p1..p4 (p1 is most urgent)
//   - Entity predicates: @label, #project, ##project-with-subprojects, /section
//   - Boolean operators: & (and), | (or), ! (not), parentheses
//
// Names can be bare (no whitespace or operators) or quoted with ' or ".
// All keyword matching is case-insensitive.
package filter

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// TokenKind represents the type of a lexer token.
type TokenKind int

const (
	TokenToday TokenKind = iota
	TokenTomorrow
	TokenOverdue
	TokenNoDate
	TokenNoLabels
	TokenNext7Days
	TokenDate     // month + day, any year
	TokenPriority // p1..p4
	TokenLabel
	TokenProject
	TokenProjectWithSubprojects
	TokenSection
	TokenAnd
	TokenOr
	TokenNot
	TokenLParen
	TokenRParen
)

// String returns the string representation of a TokenKind.
func (k TokenKind) String() string {
	switch k {
	case TokenToday:
		return "today"
	case TokenTomorrow:
		return "tomorrow"
	case TokenOverdue:
		return "overdue"
	case TokenNoDate:
		return "no date"
	case TokenNoLabels:
		return "no labels"
	case TokenNext7Days:
		return "7 days"
	case TokenDate:
		return "DATE"
	case TokenPriority:
		return "PRIORITY"
	case TokenLabel:
		return "@LABEL"
	case TokenProject:
		return "#PROJECT"
	case TokenProjectWithSubprojects:
		return "##PROJECT"
	case TokenSection:
		return "/SECTION"
	case TokenAnd:
		return "&"
	case TokenOr:
		return "|"
	case TokenNot:
		return "!"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(k))
	}
}

// Token is a single positioned token.
type Token struct {
	Kind     TokenKind
	Name     string     // label/project/section name
	Month    time.Month // TokenDate
	Day      int        // TokenDate
	Priority int        // TokenPriority, 1..4 (p1 is most urgent)
	Pos      int        // byte offset in the input
}

// LexError records one unrecognized piece of input. Lexing continues past it.
type LexError struct {
	Pos     int
	Message string
}

func (e LexError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Message, e.Pos)
}

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

type lexer struct {
	input  string
	pos    int
	tokens []Token
	errs   []LexError
}

// Lex tokenizes a filter expression. Unrecognized input is collected as
// errors; the token stream holds everything that was recognized.
func Lex(input string) ([]Token, []LexError) {
	l := &lexer{input: input}
	l.run()
	return l.tokens, l.errs
}

func (l *lexer) run() {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			return
		}
		start := l.pos
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])

		switch {
		case r == '&':
			l.pos++
			l.emit(Token{Kind: TokenAnd, Pos: start})
		case r == '|':
			l.pos++
			l.emit(Token{Kind: TokenOr, Pos: start})
		case r == '!':
			l.pos++
			l.emit(Token{Kind: TokenNot, Pos: start})
		case r == '(':
			l.pos++
			l.emit(Token{Kind: TokenLParen, Pos: start})
		case r == ')':
			l.pos++
			l.emit(Token{Kind: TokenRParen, Pos: start})
		case r == '@':
			l.pos++
			l.lexName(TokenLabel, start)
		case r == '#':
			l.pos++
			kind := TokenProject
			if l.pos < len(l.input) && l.input[l.pos] == '#' {
				l.pos++
				kind = TokenProjectWithSubprojects
			}
			l.lexName(kind, start)
		case r == '/':
			l.pos++
			l.lexName(TokenSection, start)
		case unicode.IsDigit(r):
			l.lexNumber(start)
		case unicode.IsLetter(r):
			l.lexWord(start)
		default:
			l.pos += size
			l.errorf(start, "unexpected character %q", r)
		}
	}
}

func (l *lexer) emit(t Token) {
	l.tokens = append(l.tokens, t)
}

func (l *lexer) errorf(pos int, format string, args ...interface{}) {
	l.errs = append(l.errs, LexError{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// lexName reads the name following @, #, ## or /. Quoted names may contain
// anything with backslash escapes; bare names end at whitespace, an
// operator, or a paren.
func (l *lexer) lexName(kind TokenKind, start int) {
	if l.pos < len(l.input) && (l.input[l.pos] == '"' || l.input[l.pos] == '\'') {
		name, ok := l.readQuoted()
		if !ok {
			return
		}
		l.emit(Token{Kind: kind, Name: name, Pos: start})
		return
	}
	name := l.readBare()
	if name == "" {
		l.errorf(start, "missing name after %q", l.input[start:l.pos])
		return
	}
	l.emit(Token{Kind: kind, Name: name, Pos: start})
}

func (l *lexer) readBare() string {
	begin := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if unicode.IsSpace(r) || strings.ContainsRune("&|!()", r) {
			break
		}
		l.pos += size
	}
	return l.input[begin:l.pos]
}

func (l *lexer) readQuoted() (string, bool) {
	quote := l.input[l.pos]
	quotePos := l.pos
	l.pos++
	var sb strings.Builder
	for l.pos < len(l.input) {
		r := l.input[l.pos]
		switch r {
		case quote:
			l.pos++
			return sb.String(), true
		case '\\':
			l.pos++
			if l.pos >= len(l.input) {
				l.errorf(quotePos, "unterminated escape sequence")
				return "", false
			}
			sb.WriteByte(l.input[l.pos])
			l.pos++
		default:
			sb.WriteByte(r)
			l.pos++
		}
	}
	l.errorf(quotePos, "unterminated quoted name")
	return "", false
}

// lexNumber handles "7 days". Any other bare digit run is an error; a
// rejected "N days" phrase is consumed whole and errors once.
func (l *lexer) lexNumber(start int) {
	begin := l.pos
	for l.pos < len(l.input) && unicode.IsDigit(rune(l.input[l.pos])) {
		l.pos++
	}
	digits := l.input[begin:l.pos]

	save := l.pos
	l.skipWhitespace()
	word := strings.ToLower(l.peekWord())
	if word == "days" {
		l.pos += len(word)
		if digits == "7" {
			l.emit(Token{Kind: TokenNext7Days, Pos: start})
			return
		}
		l.errorf(start, "unexpected number %q", digits)
		return
	}
	l.pos = save
	l.errorf(start, "unexpected number %q", digits)
}

// peekWord reads ahead over a letter-or-digit run so "p1" and "p4" arrive
// at lexWord as single words.
func (l *lexer) peekWord() string {
	end := l.pos
	for end < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[end:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		end += size
	}
	return l.input[l.pos:end]
}

func (l *lexer) lexWord(start int) {
	word := l.peekWord()
	l.pos += len(word)
	lower := strings.ToLower(word)

	switch lower {
	case "today":
		l.emit(Token{Kind: TokenToday, Pos: start})
		return
	case "tomorrow":
		l.emit(Token{Kind: TokenTomorrow, Pos: start})
		return
	case "overdue":
		l.emit(Token{Kind: TokenOverdue, Pos: start})
		return
	case "no":
		save := l.pos
		l.skipWhitespace()
		next := strings.ToLower(l.peekWord())
		switch next {
		case "date":
			l.pos += len(next)
			l.emit(Token{Kind: TokenNoDate, Pos: start})
		case "labels":
			l.pos += len(next)
			l.emit(Token{Kind: TokenNoLabels, Pos: start})
		default:
			// lone "no" is discarded; whatever follows lexes on its own
			l.pos = save
		}
		return
	}

	// p1..p4
	if len(lower) == 2 && lower[0] == 'p' && lower[1] >= '1' && lower[1] <= '4' {
		l.emit(Token{Kind: TokenPriority, Priority: int(lower[1] - '0'), Pos: start})
		return
	}

	// month name followed by a day
	if month, ok := monthNames[lower]; ok {
		save := l.pos
		l.skipWhitespace()
		day := l.readDay()
		if day >= 1 && day <= 31 {
			l.emit(Token{Kind: TokenDate, Month: month, Day: day, Pos: start})
			return
		}
		l.pos = save
	}

	l.errorf(start, "unrecognized word %q", word)
}

func (l *lexer) readDay() int {
	begin := l.pos
	for l.pos < len(l.input) && unicode.IsDigit(rune(l.input[l.pos])) {
		l.pos++
	}
	if l.pos == begin {
		return 0
	}
	day := 0
	for _, r := range l.input[begin:l.pos] {
		day = day*10 + int(r-'0')
	}
	return day
}
