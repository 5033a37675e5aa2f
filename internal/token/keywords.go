package token

import "sort"

var keywords = map[string]Kind{
	"define":         KwDefine,
	"fun":            KwFun,
	"fn":             KwFn,
	"λ":              KwLambda,
	"recursive":      KwRecursive,
	"theorem":        KwTheorem,
	"lemma":          KwLemma,
	"postulate":      KwPostulate,
	"proof":          KwProof,
	"end":            KwEnd,
	"union":          KwUnion,
	"import":         KwImport,
	"print":          KwPrint,
	"assert":         KwAssert,
	"private":        KwPrivate,
	"opaque":         KwOpaque,
	"auto":           KwAuto,
	"let":            KwLet,
	"if":             KwIf,
	"then":           KwThen,
	"else":           KwElse,
	"switch":         KwSwitch,
	"case":           KwCase,
	"all":            KwAll,
	"some":           KwSome,
	"not":            KwNot,
	"and":            KwAnd,
	"or":             KwOr,
	"true":           KwTrue,
	"false":          KwFalse,
	"operator":       KwOperator,
	"have":           KwHave,
	"suppose":        KwSuppose,
	"assume":         KwAssume,
	"arbitrary":      KwArbitrary,
	"choose":         KwChoose,
	"obtain":         KwObtain,
	"where":          KwWhere,
	"from":           KwFrom,
	"induction":      KwInduction,
	"conclude":       KwConclude,
	"by":             KwBy,
	"apply":          KwApply,
	"to":             KwTo,
	"definition":     KwDefinition,
	"rewrite":        KwRewrite,
	"replace":        KwReplace,
	"expand":         KwExpand,
	"evaluate":       KwEvaluate,
	"equations":      KwEquations,
	"recall":         KwRecall,
	"reflexive":      KwReflexive,
	"symmetric":      KwSymmetric,
	"transitive":     KwTransitive,
	"injective":      KwInjective,
	"extensionality": KwExtensionality,
	"sorry":          KwSorry,
	"conjunct":       KwConjunct,
	"of":             KwOf,
	"in":             KwIn,
	"with":           KwWith,
	"help":           KwHelp,
	"cases":          KwCases,
	"term":           KwTerm,
}

var keywordText = func() map[Kind]string {
	out := make(map[Kind]string, len(keywords))
	for text, k := range keywords {
		out[k] = text
	}
	return out
}()

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Keywords returns every keyword spelling in sorted order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for text := range keywords {
		out = append(out, text)
	}
	sort.Strings(out)
	return out
}
