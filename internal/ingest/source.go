package ingest

import (
	"encoding/base64"
	"regexp"
	"strings"

	pkgerrors "github.com/tokopintar/catalog-backend/pkg/errors"
)

// SourceKind classifies where an image reference points.
type SourceKind string

const (
	// SourceEmbedded is a base64 data URL carrying the bytes inline.
	SourceEmbedded SourceKind = "embedded"
	// SourceExternalURL is an http(s) URL the server fetches and re-hosts.
	SourceExternalURL SourceKind = "external_url"
	// SourceLocalFile is a device-local file:// reference the server cannot read.
	SourceLocalFile SourceKind = "local_file"
)

// placeholderPNG is a 1x1 transparent PNG substituted when no real bytes are
// available for a slot.
const placeholderPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

var dataURLRe = regexp.MustCompile(`^data:image/([a-zA-Z0-9+.-]+);base64,`)

// Source is one parsed image reference from a product payload.
type Source struct {
	Kind SourceKind

	// Data and Ext are set for embedded sources.
	Data []byte
	Ext  string

	// URL is set for external sources, Path for local ones.
	URL  string
	Path string
}

// ParseSource classifies a raw image reference. Anything that is not a data
// URL, an http(s) URL, or a file:// URI is rejected.
func ParseSource(raw string) (*Source, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image reference is empty")
	}

	switch {
	case strings.HasPrefix(trimmed, "data:"):
		return parseDataURL(trimmed)
	case strings.HasPrefix(trimmed, "file://"):
		return &Source{Kind: SourceLocalFile, Path: trimmed}, nil
	case strings.HasPrefix(trimmed, "http://"), strings.HasPrefix(trimmed, "https://"):
		return &Source{Kind: SourceExternalURL, URL: trimmed}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized image reference format")
}

func parseDataURL(raw string) (*Source, error) {
	match := dataURLRe.FindStringSubmatch(raw)
	if match == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "malformed image data URL")
	}

	payload := raw[len(match[0]):]
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decoding image data URL")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image data URL carries no payload")
	}

	return &Source{
		Kind: SourceEmbedded,
		Data: data,
		Ext:  extFromSubtype(match[1]),
	}, nil
}

func extFromSubtype(subtype string) string {
	sub := strings.ToLower(subtype)
	// "svg+xml" and friends keep only the primary token.
	if idx := strings.IndexByte(sub, '+'); idx >= 0 {
		sub = sub[:idx]
	}
	if sub == "" {
		return "jpg"
	}
	return sub
}

// PlaceholderPayload returns the decoded placeholder image bytes.
func PlaceholderPayload() []byte {
	data, err := base64.StdEncoding.DecodeString(placeholderPNG)
	if err != nil {
		// The constant is known-good; decoding can only fail if it is edited.
		panic(err)
	}
	return data
}
