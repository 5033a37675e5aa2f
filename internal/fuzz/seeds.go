package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

var languageSeeds = []string{
	"",
	"import Nat\n",
	"union Nat {\n  zero\n  suc(Nat)\n}\n",
	"recursive length<T>(List<T>) -> Nat {\n  length(empty) = zero\n  length(node(n, ls)) = suc(length(ls))\n}\n",
	"define one : Nat = suc(zero)\n",
	"fun add_one(x : Nat) -> Nat {\n  let y = suc(x);\n  y\n}\n",
	"define sw = fun x:Nat { switch x { case zero { x } case suc(k) { k } } }\n",
	"theorem add_zero: all n:Nat. n + zero = n\nproof\n  arbitrary n:Nat\n  induction Nat\n  case zero { . }\n  case suc(m) assume IH: m + zero = m { rewrite IH }\nend\n",
	"theorem chain: all a:Nat. a + zero = a\nproof\n  arbitrary a:Nat\n  equations\n    a + zero = a   by add_zero[a]\n         ... = a   by .\nend\n",
	"postulate trust: all x:Nat. x ≤ x\nprint one\nassert not (one = zero)\n",
	// восстановление после ошибок
	"union U { a ( } \ntheorem t: x = \n",
	"theorem proof proof end",
	"recursive f(Nat) -> { f(zero = }",
	"define s = \"unterminated\n",
	"/* open comment",
}

func addCorpusSeeds(f *testing.F) {
	for _, seed := range languageSeeds {
		f.Add([]byte(seed))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds добавляет все *.pf из testdata, если каталог есть.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".pf" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
