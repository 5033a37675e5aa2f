package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (editor buffer, test, stdin).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, bytes
}

// Position is the editor-facing position: zero-based line and a zero-based
// column counted in UTF-16 code units. Every query input and every range in a
// response uses this convention.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open pair of positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}
