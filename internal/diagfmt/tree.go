package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"deducels/internal/ast"
	"deducels/internal/source"
)

// TreeNode is the serializable shape of one syntax node.
type TreeNode struct {
	Kind     string       `json:"kind"`
	Token    string       `json:"token,omitempty"` // вид токена у листьев
	Text     string       `json:"text,omitempty"`
	Range    source.Range `json:"range"`
	Children []TreeNode   `json:"children,omitempty"`
}

func buildTree(n *ast.Node, file *source.File) TreeNode {
	out := TreeNode{Kind: n.Kind.String(), Range: file.RangeOf(n.Span)}
	if n.IsLeaf() {
		out.Token = n.Token.Kind.String()
		out.Text = n.Token.Text
		return out
	}
	out.Children = make([]TreeNode, 0, len(n.Children))
	for _, c := range n.Children {
		out.Children = append(out.Children, buildTree(c, file))
	}
	return out
}

// FormatTree печатает дерево с отступами: узлы по видам, листья с текстом.
//
//	Module 1:1-3:1
//	  Define 1:1-1:13
//	    Token KwDefine "define"
func FormatTree(w io.Writer, root *ast.Node, file *source.File) error {
	if root == nil {
		return nil
	}
	var b strings.Builder
	writeTree(&b, buildTree(root, file), 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTree(b *strings.Builder, n TreeNode, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if n.Token != "" {
		fmt.Fprintf(b, "%s %s %q\n", n.Kind, n.Token, n.Text)
		return
	}
	fmt.Fprintf(b, "%s %d:%d-%d:%d\n", n.Kind,
		n.Range.Start.Line+1, n.Range.Start.Character+1,
		n.Range.End.Line+1, n.Range.End.Character+1)
	for _, c := range n.Children {
		writeTree(b, c, depth+1)
	}
}

// FormatTreeJSON выводит дерево в JSON.
func FormatTreeJSON(w io.Writer, root *ast.Node, file *source.File) error {
	if root == nil {
		_, err := io.WriteString(w, "null\n")
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildTree(root, file))
}
