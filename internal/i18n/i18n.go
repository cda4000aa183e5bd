package i18n

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
}

func NewTranslations(defaultLang string) (*Translations, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	bundle.MustParseMessageFileBytes([]byte(defaultMessages), "default.en.toml")

	files, err := filepath.Glob("locales/active.*.toml")
	if err != nil {
		return nil, fmt.Errorf("error reading locales: %w", err)
	}

	for _, file := range files {
		if _, err := bundle.LoadMessageFile(file); err != nil {
			return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
		}
	}

	localize := i18n.NewLocalizer(bundle, defaultLang)

	return &Translations{
		bundle:   bundle,
		localize: localize,
	}, nil
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

func (t *Translations) GetMessage(messageID string, count int, templateData map[string]interface{}) string {
	localized, err := t.localize.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID: messageID,
		},
		PluralCount:  count,
		TemplateData: templateData,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

var defaultMessages = `
	[app_usage]
	other = "Generate a README for any public GitHub repository"

	[app_description]
	other = "readmeforge inspects a GitHub repository and asks Gemini to write a README for it. Run it once from the terminal or serve it as an HTTP API with GitHub sign-in."

	[help_command_usage]
	other = "Show help"

	[generate_command_description]
	description = "Description for the generate command"
	other = "Inspect a repository and generate a README with Gemini"

	[serve_command_description]
	description = "Description for the serve command"
	other = "Run the readmeforge HTTP API"

	[flag_owner]
	other = "Repository owner (user or organization)"

	[flag_repo]
	other = "Repository name"

	[flag_sections]
	other = "Comma separated section ids, in the order they should appear"

	[flag_tone]
	other = "Writing tone: professional, friendly, technical or minimal"

	[flag_badge_style]
	other = "shields.io badge style: flat, flat-square, plastic or for-the-badge"

	[flag_emoji]
	other = "Decorate section headings with emoji"

	[flag_toc]
	other = "Include a table of contents"

	[flag_output]
	other = "Write the README to this file instead of stdout"

	[flag_lang]
	other = "Interface language (en or es)"

	[flag_addr]
	other = "Listen address, overrides SERVER_HOST/SERVER_PORT"

	[flag_debug]
	other = "Log at debug level"

	[flag_verbose]
	other = "Include source locations in log output"

	[stage_repo_metadata]
	other = "Fetching repository metadata..."

	[stage_languages]
	other = "Fetching language breakdown..."

	[stage_file_tree]
	other = "Walking the file tree..."

	[stage_config_files]
	one = "Reading {{.Count}} config file..."
	other = "Reading {{.Count}} config files..."

	[stage_assemble]
	other = "Assembling repository snapshot..."

	[generating_readme]
	other = "Asking the model for a README..."

	[readme_generated]
	other = "README generated"

	[readme_saved]
	other = "README written to {{.Path}}"

	[tokens_used]
	other = "{{.Total}} tokens ({{.Input}} prompt, {{.Output}} completion)"

	[server_listening]
	other = "readmeforge listening on {{.Addr}}"

	[new_version_available]
	other = "A new version of readmeforge is available: {{.Latest}} (you have {{.Current}})"

	[update_hint]
	other = "Download it from https://github.com/readmeforge/readmeforge/releases"

	[error_details]
	other = "Details"

	[error_try]
	other = "Try"

	[factory_already_registered]
	other = "the command factory {{.FactoryName}} is already registered"
	`
