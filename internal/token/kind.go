package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token (unknown character, broken literal).
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents a decimal integer literal.
	IntLit
	// StringLit represents a double-quoted string literal.
	StringLit
	// Operator represents a symbolic operator; Text holds the operator itself.
	Operator

	kwBegin
	KwDefine         // define
	KwFun            // fun
	KwFn             // fn
	KwLambda         // λ
	KwRecursive      // recursive
	KwTheorem        // theorem
	KwLemma          // lemma
	KwPostulate      // postulate
	KwProof          // proof
	KwEnd            // end
	KwUnion          // union
	KwImport         // import
	KwPrint          // print
	KwAssert         // assert
	KwPrivate        // private
	KwOpaque         // opaque
	KwAuto           // auto
	KwLet            // let
	KwIf             // if
	KwThen           // then
	KwElse           // else
	KwSwitch         // switch
	KwCase           // case
	KwAll            // all
	KwSome           // some
	KwNot            // not
	KwAnd            // and
	KwOr             // or
	KwTrue           // true
	KwFalse          // false
	KwOperator       // operator
	KwHave           // have
	KwSuppose        // suppose
	KwAssume         // assume
	KwArbitrary      // arbitrary
	KwChoose         // choose
	KwObtain         // obtain
	KwWhere          // where
	KwFrom           // from
	KwInduction      // induction
	KwConclude       // conclude
	KwBy             // by
	KwApply          // apply
	KwTo             // to
	KwDefinition     // definition
	KwRewrite        // rewrite
	KwReplace        // replace
	KwExpand         // expand
	KwEvaluate       // evaluate
	KwEquations      // equations
	KwRecall         // recall
	KwReflexive      // reflexive
	KwSymmetric      // symmetric
	KwTransitive     // transitive
	KwInjective      // injective
	KwExtensionality // extensionality
	KwSorry          // sorry
	KwConjunct       // conjunct
	KwOf             // of
	KwIn             // in
	KwWith           // with
	KwHelp           // help
	KwCases          // cases
	KwTerm           // term
	kwEnd

	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
	// LBrace represents the left brace token.
	LBrace // {
	// RBrace represents the right brace token.
	RBrace // }
	// LBracket represents the left bracket token.
	LBracket // [
	// RBracket represents the right bracket token.
	RBracket // ]
	Comma     // ,
	Colon     // :
	Semicolon // ;
	Dot       // .
	Ellipsis  // ...
	Arrow     // ->
	Pipe      // |
	At        // @
	Question  // ?
	Hash      // #
)

var kindNames = map[Kind]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	IntLit:    "IntLit",
	StringLit: "StringLit",
	Operator:  "Operator",
	LParen:    "LParen",
	RParen:    "RParen",
	LBrace:    "LBrace",
	RBrace:    "RBrace",
	LBracket:  "LBracket",
	RBracket:  "RBracket",
	Comma:     "Comma",
	Colon:     "Colon",
	Semicolon: "Semicolon",
	Dot:       "Dot",
	Ellipsis:  "Ellipsis",
	Arrow:     "Arrow",
	Pipe:      "Pipe",
	At:        "At",
	Question:  "Question",
	Hash:      "Hash",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if k > kwBegin && k < kwEnd {
		return "Kw(" + keywordText[k] + ")"
	}
	return "Kind(?)"
}

// Category is the coarse classification reported to tooling.
type Category uint8

const (
	CategoryInvalid Category = iota
	CategoryKeyword
	CategoryIdentifier
	CategoryOperator
	CategoryLiteral
	CategoryPunctuation
	CategoryEOF
)

func (c Category) String() string {
	switch c {
	case CategoryKeyword:
		return "keyword"
	case CategoryIdentifier:
		return "identifier"
	case CategoryOperator:
		return "operator"
	case CategoryLiteral:
		return "literal"
	case CategoryPunctuation:
		return "punctuation"
	case CategoryEOF:
		return "eof"
	default:
		return "invalid"
	}
}

// Category classifies the kind.
func (k Kind) Category() Category {
	switch {
	case k == EOF:
		return CategoryEOF
	case k == Ident:
		return CategoryIdentifier
	case k == IntLit || k == StringLit:
		return CategoryLiteral
	case k == Operator:
		return CategoryOperator
	case k > kwBegin && k < kwEnd:
		return CategoryKeyword
	case k >= LParen && k <= Hash:
		return CategoryPunctuation
	default:
		return CategoryInvalid
	}
}
