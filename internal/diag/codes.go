package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectTerm         Code = 2003
	SynExpectType         Code = 2004
	SynExpectProof        Code = 2005
	SynUnclosedDelimiter  Code = 2006
	SynMissingEnd         Code = 2007
	SynUnexpectedTopLevel Code = 2008
	SynNestingTooDeep     Code = 2009
	SynExpectToken        Code = 2010
	SynExpectPattern      Code = 2011

	// Семантические (разрешение имён)
	SemaInfo            Code = 3000
	SemaDuplicateSymbol Code = 3002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectTerm:               "Expected term",
	SynExpectType:               "Expected type",
	SynExpectProof:              "Expected proof",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynMissingEnd:               "Missing 'end' after proof",
	SynUnexpectedTopLevel:       "Unexpected token at top level",
	SynNestingTooDeep:           "Nesting too deep",
	SynExpectToken:              "Expected token",
	SynExpectPattern:            "Expected pattern",
	SemaInfo:                    "Semantic information",
	SemaDuplicateSymbol:         "Name declared twice in the same scope",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
