package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embedded embed.FS

// Translator loads YAML locale files and provides lookup with fallback.
type Translator struct {
	locales     map[string]map[string]string
	defaultLang string
}

// NewTranslator loads all *.yaml locale files from fsys.
// Each file should be named like pt.yaml, en.yaml and contain flat key/value pairs.
func NewTranslator(fsys fs.FS, defaultLang string) (*Translator, error) {
	t := &Translator{
		locales:     make(map[string]map[string]string),
		defaultLang: defaultLang,
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
			return nil
		}
		lang := strings.TrimSuffix(path.Base(p), ".yaml")
		data, readErr := fs.ReadFile(fsys, p)
		if readErr != nil {
			return fmt.Errorf("read locale %s: %w", p, readErr)
		}
		kv := make(map[string]string)
		if unmarshalErr := yaml.Unmarshal(data, &kv); unmarshalErr != nil {
			return fmt.Errorf("parse locale %s: %w", p, unmarshalErr)
		}
		t.locales[lang] = kv
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Ensure default exists
	if _, ok := t.locales[defaultLang]; !ok {
		t.locales[defaultLang] = make(map[string]string)
	}

	return t, nil
}

// Load reads the locales compiled into the binary
func Load(defaultLang string) (*Translator, error) {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return nil, fmt.Errorf("open embedded locales: %w", err)
	}
	return NewTranslator(sub, defaultLang)
}

// NewFallback creates a translator with no locales and a given default language.
func NewFallback(defaultLang string) *Translator {
	return &Translator{
		locales:     map[string]map[string]string{defaultLang: {}},
		defaultLang: defaultLang,
	}
}

// T returns translation for key with fallback to default and then the key itself.
func (t *Translator) T(lang, key string) string {
	if lang != "" {
		if val, ok := t.locales[lang][key]; ok {
			return val
		}
	}
	if val, ok := t.locales[t.defaultLang][key]; ok {
		return val
	}
	return key
}

// Tf formats the translation of key with args
func (t *Translator) Tf(lang, key string, args ...interface{}) string {
	return fmt.Sprintf(t.T(lang, key), args...)
}

// Default returns the fallback language
func (t *Translator) Default() string {
	return t.defaultLang
}

// Normalize maps a language tag such as "en-US" or an Accept-Language
// header to a loaded locale, falling back to the default.
func (t *Translator) Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	for _, part := range strings.Split(lang, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.SplitN(tag, "-", 2)[0]
		if _, ok := t.locales[base]; ok && base != "" {
			return base
		}
	}
	return t.defaultLang
}

// Supported reports whether lang has a locale file
func (t *Translator) Supported(lang string) bool {
	_, ok := t.locales[lang]
	return ok
}

// Available returns loaded language codes.
func (t *Translator) Available() []string {
	keys := make([]string, 0, len(t.locales))
	for k := range t.locales {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
