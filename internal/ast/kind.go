package ast

// Kind tags a Node. The tree is homogeneous: every construct is a Node with
// ordered children, every token is a KindToken leaf.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindModule
	// KindError holds tokens skipped during recovery.
	KindError
	// KindToken is a leaf wrapping exactly one token.
	KindToken

	// KindBinder is a binding occurrence: IDENT or `operator OP`.
	KindBinder
	// KindName is a use occurrence: IDENT or `operator OP`.
	KindName

	// statements
	KindImport
	KindImportPath
	KindUnion
	KindConstructor
	KindDefine
	KindFun
	KindRecursive
	KindEquation
	KindTheorem
	KindPrint
	KindAssert

	// shared pieces
	KindModifier
	KindTypeParams
	KindParamList
	KindParam
	KindBody
	KindLetBinding

	// types
	KindTypeName
	KindTypeApp
	KindTypeFn
	KindTypeParen

	// terms
	KindBinary
	KindPrefix
	KindCall
	KindInstantiate
	KindTypeInst
	KindParen
	KindList
	KindLiteral
	KindHole
	KindIf
	KindSwitch
	KindSwitchCase
	KindLambda
	KindQuantifier
	KindBlock

	// patterns
	KindPattern

	// proofs
	KindProof
	KindProofBlock
	KindHave
	KindSuppose
	KindArbitrary
	KindChoose
	KindObtain
	KindProofDefine
	KindConclude
	KindApply
	KindInduction
	KindInductionCase
	KindAssumeList
	KindCases
	KindCasesBranch
	KindEquations
	KindEquationStep
	KindDefinition
	KindRewrite
	KindRecall
	KindProofOp
	KindConjunct
	KindTermProof
	KindTruth

	kindCount
)

var kindNames = [...]string{
	KindInvalid:       "Invalid",
	KindModule:        "Module",
	KindError:         "Error",
	KindToken:         "Token",
	KindBinder:        "Binder",
	KindName:          "Name",
	KindImport:        "Import",
	KindImportPath:    "ImportPath",
	KindUnion:         "Union",
	KindConstructor:   "Constructor",
	KindDefine:        "Define",
	KindFun:           "Fun",
	KindRecursive:     "Recursive",
	KindEquation:      "Equation",
	KindTheorem:       "Theorem",
	KindPrint:         "Print",
	KindAssert:        "Assert",
	KindModifier:      "Modifier",
	KindTypeParams:    "TypeParams",
	KindParamList:     "ParamList",
	KindParam:         "Param",
	KindBody:          "Body",
	KindLetBinding:    "LetBinding",
	KindTypeName:      "TypeName",
	KindTypeApp:       "TypeApp",
	KindTypeFn:        "TypeFn",
	KindTypeParen:     "TypeParen",
	KindBinary:        "Binary",
	KindPrefix:        "Prefix",
	KindCall:          "Call",
	KindInstantiate:   "Instantiate",
	KindTypeInst:      "TypeInst",
	KindParen:         "Paren",
	KindList:          "List",
	KindLiteral:       "Literal",
	KindHole:          "Hole",
	KindIf:            "If",
	KindSwitch:        "Switch",
	KindSwitchCase:    "SwitchCase",
	KindLambda:        "Lambda",
	KindQuantifier:    "Quantifier",
	KindBlock:         "Block",
	KindPattern:       "Pattern",
	KindProof:         "Proof",
	KindProofBlock:    "ProofBlock",
	KindHave:          "Have",
	KindSuppose:       "Suppose",
	KindArbitrary:     "Arbitrary",
	KindChoose:        "Choose",
	KindObtain:        "Obtain",
	KindProofDefine:   "ProofDefine",
	KindConclude:      "Conclude",
	KindApply:         "Apply",
	KindInduction:     "Induction",
	KindInductionCase: "InductionCase",
	KindAssumeList:    "AssumeList",
	KindCases:         "Cases",
	KindCasesBranch:   "CasesBranch",
	KindEquations:     "Equations",
	KindEquationStep:  "EquationStep",
	KindDefinition:    "Definition",
	KindRewrite:       "Rewrite",
	KindRecall:        "Recall",
	KindProofOp:       "ProofOp",
	KindConjunct:      "Conjunct",
	KindTermProof:     "TermProof",
	KindTruth:         "Truth",
}

func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsStatement reports whether k is a top-level statement.
func (k Kind) IsStatement() bool {
	switch k {
	case KindImport, KindUnion, KindDefine, KindFun, KindRecursive,
		KindTheorem, KindPrint, KindAssert:
		return true
	default:
		return false
	}
}
