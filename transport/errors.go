package transport

import (
	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

// Transport-level failures are transient by definition: the request never
// produced a provider status, so the retry policy may re-attempt it.
func transportWrapError(source error, message string) error {
	return core.NewTransientUpstreamError("", source, message)
}
