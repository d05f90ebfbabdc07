package api

import "time"

// EntityType names a kind of tree node for the entity endpoints.
type EntityType string

const (
	EntityDocument       EntityType = "Document"
	EntityMedia          EntityType = "Media"
	EntityMember         EntityType = "Member"
	EntityDataType       EntityType = "DataType"
	EntityTemplate       EntityType = "Template"
	EntityDictionaryItem EntityType = "DictionaryItem"
	EntityDocumentType   EntityType = "DocumentType"
	EntityMediaType      EntityType = "MediaType"
)

// Entity is a minimal read-only projection of a tree node.
type Entity struct {
	ID       int            `json:"id"`
	Key      string         `json:"key,omitempty"`
	Name     string         `json:"name"`
	Icon     string         `json:"icon,omitempty"`
	Path     string         `json:"path,omitempty"`
	ParentID int            `json:"parentId"`
	Alias    string         `json:"alias,omitempty"`
	Udi      string         `json:"udi,omitempty"`
	Trashed  bool           `json:"trashed,omitempty"`
	Metadata map[string]any `json:"metaData,omitempty"`
}

// SearchResult is one hit from an entity search.
type SearchResult struct {
	ID       int            `json:"id"`
	Key      string         `json:"key,omitempty"`
	Name     string         `json:"name"`
	Icon     string         `json:"icon,omitempty"`
	Path     string         `json:"path,omitempty"`
	Score    float64        `json:"score,omitempty"`
	Metadata map[string]any `json:"metaData,omitempty"`
}

// TreeSearchResult groups SearchAll hits by tree.
type TreeSearchResult struct {
	AppAlias           string         `json:"appAlias"`
	TreeAlias          string         `json:"treeAlias"`
	JSFormatterService string         `json:"jsFormatterService,omitempty"`
	Results            []SearchResult `json:"results"`
}

// PagedResult is the server's paging envelope.
type PagedResult[T any] struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
	Items      []T `json:"items"`
}

// ContentVariant is one culture/segment variation of a content item.
type ContentVariant struct {
	Name        string           `json:"name"`
	Language    *Language        `json:"language,omitempty"`
	Segment     string           `json:"segment,omitempty"`
	State       string           `json:"state,omitempty"`
	UpdateDate  string           `json:"updateDate,omitempty"`
	PublishDate string           `json:"publishDate,omitempty"`
	Tabs        []map[string]any `json:"tabs,omitempty"`
}

// ContentItem is a document as exchanged with the content endpoints.
// Properties the client does not interpret are carried in Variants and Extra.
type ContentItem struct {
	ID               int              `json:"id"`
	Key              string           `json:"key,omitempty"`
	Udi              string           `json:"udi,omitempty"`
	Name             string           `json:"name,omitempty"`
	ParentID         int              `json:"parentId"`
	Path             string           `json:"path,omitempty"`
	ContentTypeAlias string           `json:"contentTypeAlias,omitempty"`
	ContentTypeName  string           `json:"contentTypeName,omitempty"`
	Icon             string           `json:"icon,omitempty"`
	Trashed          bool             `json:"trashed"`
	IsContainer      bool             `json:"isContainer,omitempty"`
	TemplateAlias    string           `json:"templateAlias,omitempty"`
	SortOrder        int              `json:"sortOrder,omitempty"`
	UpdateDate       string           `json:"updateDate,omitempty"`
	Variants         []ContentVariant `json:"variants,omitempty"`
	Urls             []ContentURL     `json:"urls,omitempty"`
	Extra            map[string]any   `json:"extra,omitempty"`
}

// ContentURL is one published URL of a content item.
type ContentURL struct {
	Text    string `json:"text"`
	Culture string `json:"culture,omitempty"`
	IsURL   bool   `json:"isUrl"`
}

// MediaItem is a media node.
type MediaItem struct {
	ID               int              `json:"id"`
	Key              string           `json:"key,omitempty"`
	Udi              string           `json:"udi,omitempty"`
	Name             string           `json:"name"`
	ParentID         int              `json:"parentId"`
	Path             string           `json:"path,omitempty"`
	ContentTypeAlias string           `json:"contentTypeAlias,omitempty"`
	Icon             string           `json:"icon,omitempty"`
	Trashed          bool             `json:"trashed"`
	MediaLink        string           `json:"mediaLink,omitempty"`
	Tabs             []map[string]any `json:"tabs,omitempty"`
}

// User is a backoffice user as listed by the users endpoints.
type User struct {
	ID            int         `json:"id"`
	Key           string      `json:"key,omitempty"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Username      string      `json:"username"`
	UserState     int         `json:"userState"`
	Culture       string      `json:"culture,omitempty"`
	LastLoginDate *time.Time  `json:"lastLoginDate,omitempty"`
	Avatars       []string    `json:"avatars,omitempty"`
	UserGroups    []UserGroup `json:"userGroups,omitempty"`
}

// UserGroup is a permission group a user belongs to.
type UserGroup struct {
	ID    int    `json:"id"`
	Alias string `json:"alias"`
	Name  string `json:"name"`
}

// CurrentUser is the logged-in user as reported by the authentication endpoints.
type CurrentUser struct {
	ID                   int      `json:"id"`
	Name                 string   `json:"name"`
	Email                string   `json:"email"`
	Locale               string   `json:"locale,omitempty"`
	EmailHash            string   `json:"emailHash,omitempty"`
	StartContentIDs      []int    `json:"startContentIds,omitempty"`
	StartMediaIDs        []int    `json:"startMediaIds,omitempty"`
	AllowedSections      []string `json:"allowedSections,omitempty"`
	UserGroups           []string `json:"userGroups,omitempty"`
	RemainingAuthSeconds float64  `json:"remainingAuthSeconds"`
}

// DictionaryTranslation is the value of a dictionary item for one language.
type DictionaryTranslation struct {
	IsoCode     string `json:"isoCode"`
	DisplayName string `json:"displayName,omitempty"`
	Translation string `json:"translation"`
	LanguageID  int    `json:"languageId"`
}

// DictionaryItem is a translatable key.
type DictionaryItem struct {
	ID           int                     `json:"id"`
	Key          string                  `json:"key,omitempty"`
	Name         string                  `json:"name"`
	ParentID     int                     `json:"parentId"`
	Path         string                  `json:"path,omitempty"`
	Translations []DictionaryTranslation `json:"translations,omitempty"`
}

// DictionaryOverviewItem is a row in the dictionary list.
type DictionaryOverviewItem struct {
	ID           int                     `json:"id"`
	Name         string                  `json:"name"`
	Level        int                     `json:"level"`
	Translations []DictionaryTranslation `json:"translations,omitempty"`
}

// Template is a view template.
type Template struct {
	ID                  int    `json:"id"`
	Key                 string `json:"key,omitempty"`
	Name                string `json:"name"`
	Alias               string `json:"alias"`
	Content             string `json:"content,omitempty"`
	Path                string `json:"path,omitempty"`
	VirtualPath         string `json:"virtualPath,omitempty"`
	MasterTemplateAlias string `json:"masterTemplateAlias,omitempty"`
	IsMasterTemplate    bool   `json:"isMasterTemplate,omitempty"`
}

// DataType is a configured property editor.
type DataType struct {
	ID             int              `json:"id"`
	Key            string           `json:"key,omitempty"`
	Name           string           `json:"name"`
	ParentID       int              `json:"parentId"`
	Path           string           `json:"path,omitempty"`
	SelectedEditor string           `json:"selectedEditor,omitempty"`
	Trashed        bool             `json:"trashed,omitempty"`
	PreValues      []map[string]any `json:"preValues,omitempty"`
}

// Language is an installed content language.
type Language struct {
	ID                 int    `json:"id"`
	Culture            string `json:"culture"`
	Name               string `json:"name"`
	IsDefault          bool   `json:"isDefault"`
	IsMandatory        bool   `json:"isMandatory"`
	FallbackLanguageID *int   `json:"fallbackLanguageId,omitempty"`
}
