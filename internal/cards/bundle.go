package cards

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Bundle message keys.
const (
	KeyCard    = "card"
	KeyDefault = "default"
	KeyThanks  = "thanks"
)

// Bundle is the localized message bundle for one deployment country,
// keyed language -> message key -> text. Loaded once at startup and
// read-only afterwards.
type Bundle struct {
	messages        map[string]map[string]string
	defaultLanguage string
}

// LoadBundle reads messages-<countryCode>.yaml from dir. Selecting the
// bundle file by country code happens here, at init, not at runtime.
func LoadBundle(dir, countryCode, defaultLanguage string, logger *slog.Logger) (*Bundle, error) {
	path := filepath.Join(dir, "messages-"+countryCode+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read message bundle %s: %w", path, err)
	}

	var messages map[string]map[string]string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("cannot parse message bundle %s: %w", path, err)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("message bundle %s is empty", path)
	}
	if _, ok := messages[defaultLanguage]; !ok {
		return nil, fmt.Errorf("message bundle %s has no entries for default language %q", path, defaultLanguage)
	}

	logger.Info("message bundle loaded", "path", path, "languages", len(messages))
	return &Bundle{messages: messages, defaultLanguage: defaultLanguage}, nil
}

// Text returns the message for the language and key, falling back to the
// default language when the requested language has no entry.
func (b *Bundle) Text(language, key string) string {
	if msgs, ok := b.messages[language]; ok {
		if text, ok := msgs[key]; ok {
			return text
		}
	}
	return b.messages[b.defaultLanguage][key]
}

// Languages returns the language codes present in the bundle.
func (b *Bundle) Languages() []string {
	langs := make([]string, 0, len(b.messages))
	for l := range b.messages {
		langs = append(langs, l)
	}
	return langs
}
