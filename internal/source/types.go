package source

type (
	// FileID uniquely identifies a candidate source within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a source was loaded.
	FileFlags uint8
)

const (
	// FileVirtual indicates the source was added from memory (generator output, stdin, test).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM indicates a UTF-8 BOM was stripped on load.
	FileHadBOM
	// FileNormalizedCRLF indicates CRLF line endings were normalized on load.
	FileNormalizedCRLF
)

// File captures metadata and content for a single candidate source.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
