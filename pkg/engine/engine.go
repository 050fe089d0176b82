// Package engine defines the capability contract the signing session expects
// from a rich-document engine. The engine is an external collaborator: it
// owns rendering, layout, tagged-placeholder storage, and export. The session
// only consumes the small surface below.
package engine

import "context"

// Document describes the source the engine should render. Exactly how the
// bytes are interpreted (DOCX, HTML, internal format) is the engine's
// business.
type Document struct {
	// Name is a display name for the document, used in download payloads.
	Name string
	// Data is the raw document source.
	Data []byte
	// ContentType hints at the source format, e.g.
	// "application/vnd.openxmlformats-officedocument.wordprocessingml.document".
	ContentType string
}

// Placeholder is a tagged region the engine reports during discovery: an
// addressable id, an optional human-readable alias and label, and whatever
// textual content currently fills the region.
type Placeholder struct {
	ID    string
	Alias string
	Label string
	Text  string
}

// Content is the payload for an update-by-id call. Exactly one of Text or
// ImageRef is set: plain text replacement, or rich image injection (data URI
// or URL) used for signatures.
type Content struct {
	Text     string
	ImageRef string
}

// Format names an export target.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Engine is the document engine capability contract. Implementations bridge
// to the real renderer; enginetest.Fake stands in for tests.
//
// Readiness is externally driven: the binding layer forwards the engine's
// ready/error notifications to the session via Session.EngineReady and
// Session.EngineError.
type Engine interface {
	// Render mounts and renders the document. Called only when the session
	// constructed the engine itself from a Document descriptor.
	Render(ctx context.Context) error

	// Ready reports whether the engine has finished loading and accepts
	// field updates.
	Ready() bool

	// Placeholders returns the currently tagged placeholders in document
	// order. The session consumes the ordering as given.
	Placeholders(ctx context.Context) ([]Placeholder, error)

	// UpdateField replaces the content of the placeholder with the given id.
	UpdateField(ctx context.Context, id string, content Content) error

	// Export renders the current document state to a byte blob in the given
	// format.
	Export(ctx context.Context, format Format) ([]byte, error)

	// Close tears the engine down. The session calls this only for engines
	// it created itself; host-supplied engines are never closed by the
	// session.
	Close() error
}

// Factory constructs an engine for a document and mount point. Hosts supply
// one when they hand the session a Document instead of a live Engine.
type Factory func(doc Document, mount string) (Engine, error)
