// Package document defines the text unit flowing through the ingestion
// pipeline and the metadata-trimming stage that runs before chunking.
package document

// Document is a unit of source text with scalar metadata. One Document
// typically corresponds to one PDF page. Documents are treated as
// immutable once created; derive new values instead of mutating.
type Document struct {
	// Content is the raw text of the document.
	Content string `json:"content"`

	// Metadata carries scalar attributes of the document
	// (e.g. source URL, page number).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Clone returns a copy of the document with its own metadata map, so the
// copy can be carried forward without aliasing the original.
func (d Document) Clone() Document {
	out := Document{Content: d.Content}
	if d.Metadata != nil {
		out.Metadata = make(map[string]any, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// FilterMetadata returns copies of docs keeping only the allow-listed
// metadata keys. Values are copied verbatim. This is the explicit first
// stage of the ingestion pipeline: trim metadata, then chunk.
func FilterMetadata(docs []Document, allowed []string) []Document {
	allow := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		allow[k] = struct{}{}
	}

	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		filtered := Document{Content: doc.Content}
		for k, v := range doc.Metadata {
			if _, ok := allow[k]; !ok {
				continue
			}
			if filtered.Metadata == nil {
				filtered.Metadata = make(map[string]any)
			}
			filtered.Metadata[k] = v
		}
		out = append(out, filtered)
	}
	return out
}
