package transfer

import "strings"

// Kind classifies a transfer's payload. It selects the GET/PUT strategy and
// decides whether the transfer is published for external control.
type Kind int

const (
	// KindFile covers plain objects streamed to or from a local file.
	KindFile Kind = iota

	// KindVCardListing is the phonebook listing delivered as a
	// NUL-delimited string.
	KindVCardListing

	// KindFolderListing is the folder listing delivered as a
	// NUL-delimited string.
	KindFolderListing

	// KindInternal covers the protocol-internal MIME families that are
	// consumed in-process and never exposed externally.
	KindInternal
)

// Classify maps a declared MIME type to its payload kind. An empty or
// unrecognized type is a plain file.
func Classify(mimeType string) Kind {
	switch mimeType {
	case "x-bt/vcard-listing":
		return KindVCardListing
	case "x-obex/folder-listing":
		return KindFolderListing
	}
	if strings.HasPrefix(mimeType, "x-obex/") || strings.HasPrefix(mimeType, "x-bt/") {
		return KindInternal
	}
	return KindFile
}

// Listing reports whether inbound data accumulates as a string instead of
// streaming to a file.
func (k Kind) Listing() bool {
	return k == KindVCardListing || k == KindFolderListing
}

// Publishable reports whether a transfer of this kind gets an externally
// addressable identity. The protocol-internal MIME families do not.
func (k Kind) Publishable() bool {
	return k == KindFile
}
