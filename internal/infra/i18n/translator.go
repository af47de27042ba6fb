package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when the configured locale has no file.
const DefaultLanguage = "en"

//go:embed locales
var LocalesFS embed.FS

type Translator struct {
	lang         string
	translations map[string]string
}

// NewTranslator loads locales/<langCode>.yaml from fsys, falling back to
// DefaultLanguage when that file does not exist.
func NewTranslator(fsys fs.FS, langCode string) (*Translator, error) {
	data, err := fs.ReadFile(fsys, localePath(langCode))
	if errors.Is(err, fs.ErrNotExist) && langCode != DefaultLanguage {
		langCode = DefaultLanguage
		data, err = fs.ReadFile(fsys, localePath(langCode))
	}
	if err != nil {
		return nil, fmt.Errorf("read locale %q: %w", langCode, err)
	}
	t, err := newTranslatorFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", langCode, err)
	}
	t.lang = langCode
	return t, nil
}

// embed.FS paths always use forward slashes.
func localePath(lang string) string { return path.Join("locales", lang+".yaml") }

func newTranslatorFromBytes(data []byte) (*Translator, error) {
	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("parse messages: %w", err)
	}
	return &Translator{translations: translations}, nil
}

// Language reports the locale actually loaded.
func (t *Translator) Language() string { return t.lang }

// T returns the message for key, formatted with args. Unknown keys come back as-is.
func (t *Translator) T(key string, args ...interface{}) string {
	format, ok := t.translations[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}
