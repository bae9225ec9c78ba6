package extract

import "errors"

// ErrUnsupportedLanguage is returned by the extraction factory for a language
// tag outside the fixed registry. The factory never guesses a fallback; an
// unknown tag is always a hard error for that file.
var ErrUnsupportedLanguage = errors.New("no extractor available for language")
