package translator

import (
	"embed"
	"io/fs"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/julianstephens/ogtodo/internal/logger"
)

const (
	LanguageEn = "en"
	LanguageFr = "fr"
)

//go:embed translation/*.toml
var translations embed.FS

// Translator is the shared message bundle. Init must run before it is used.
var Translator *i18n.Bundle

var supported = []language.Tag{language.English, language.French}

var matcher = language.NewMatcher(supported)

// Init loads the embedded translation files into Translator.
func Init() error {
	return InitFS(translations, "translation")
}

// InitFS loads every .toml file under dir of fsys. Files are named <lang>.toml.
func InitFS(fsys fs.FS, dir string) error {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".toml" {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(fsys, path.Join(dir, entry.Name())); err != nil {
			logger.Warn("failed to load translation file", "file", entry.Name(), "err", err)
		}
	}
	Translator = bundle
	return nil
}

// Match picks the best supported language for an Accept-Language header value.
func Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return LanguageEn
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LanguageEn
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return LanguageEn
	}
	base, _ := supported[idx].Base()
	return base.String()
}
