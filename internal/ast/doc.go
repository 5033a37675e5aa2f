// Package ast defines the homogeneous syntax tree produced by the parser.
package ast
