package chatModel

// ChatMode is resolved once at the API boundary - no string comparisons past
// the handler layer.
type ChatMode int

const (
	ModeUnknown ChatMode = iota
	ModeSingleDoc
	ModeFolderFast
	ModeFolderDeep
)

func (m ChatMode) String() string {
	switch m {
	case ModeSingleDoc:
		return "single_doc"
	case ModeFolderFast:
		return "folder_fast"
	case ModeFolderDeep:
		return "folder_deep"
	default:
		return "unknown"
	}
}

// ResolveMode maps the wire-level mode string plus the request shape to a
// ChatMode. A document id always wins; folder requests default to fast.
func ResolveMode(mode string, documentId string, folderName string) ChatMode {
	if documentId != "" {
		return ModeSingleDoc
	}
	if folderName == "" {
		return ModeUnknown
	}
	switch mode {
	case "deep":
		return ModeFolderDeep
	case "fast", "simple", "":
		return ModeFolderFast
	default:
		return ModeFolderFast
	}
}

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Query is the resolved, validated chat request the pipeline operates on.
type Query struct {
	Message    string
	DocumentId string
	FolderName string
	Mode       ChatMode
	History    []Turn
}

type ChunkType string

const (
	ChunkTypeText    ChunkType = "text"
	ChunkTypeSummary ChunkType = "summary"
)

// RetrievedChunk is a scored retrieval candidate carrying the source metadata
// the synthesizer trusts over anything the model claims.
type RetrievedChunk struct {
	ChunkId    string
	DocumentId string
	Page       int
	Source     string //document title
	Content    string
	Score      float32
	Type       ChunkType
}

type Citation struct {
	Content string `json:"content"`
	Page    int    `json:"page"`
	Source  string `json:"source"`
	ChunkId string `json:"id,omitempty"`
}

type Answer struct {
	Text      string
	Citations []Citation
}
