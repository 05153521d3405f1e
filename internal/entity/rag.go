package entity

// Segment is a chunk of a document together with its vector.
// Score is only set on search results; Embedding is only set before insert.
type Segment struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Embedding []float32         `json:"-"`
	Metadata  map[string]string `json:"metadata"`
	Score     float64           `json:"score"`
}

// Reserved metadata keys attached to every stored segment.
const (
	MetadataSegmentIndex  = "segment_index"
	MetadataTotalSegments = "total_segments"
	MetadataContentLength = "content_length"
	MetadataFilename      = "filename"
	MetadataSource        = "source"
)

// FileData is an uploaded file after it was read into memory.
type FileData struct {
	Filename string
	Content  []byte
}
