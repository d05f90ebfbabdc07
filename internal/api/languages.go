package api

import "context"

// GetAll lists the installed languages, which is the set of supported cultures.
func (s LanguagesService) GetAll(ctx context.Context) ([]Language, error) {
	return getResource[[]Language](ctx, s, AliasLanguage, "GetAllLanguages", "Failed to get languages")
}
