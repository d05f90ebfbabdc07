package api

// Service accessors group Client methods by resource.
// Each service embeds *Client and holds no state of its own.

type AuthenticationService struct{ *Client }

type ContentService struct{ *Client }

type DataTypesService struct{ *Client }

type DictionaryService struct{ *Client }

type EntityService struct{ *Client }

type LanguagesService struct{ *Client }

type MediaService struct{ *Client }

type TemplatesService struct{ *Client }

type UsersService struct{ *Client }

func (c *Client) Authentication() AuthenticationService {
	return AuthenticationService{c}
}

func (c *Client) Content() ContentService {
	return ContentService{c}
}

func (c *Client) DataTypes() DataTypesService {
	return DataTypesService{c}
}

func (c *Client) Dictionary() DictionaryService {
	return DictionaryService{c}
}

func (c *Client) Entity() EntityService {
	return EntityService{c}
}

func (c *Client) Languages() LanguagesService {
	return LanguagesService{c}
}

func (c *Client) Media() MediaService {
	return MediaService{c}
}

func (c *Client) Templates() TemplatesService {
	return TemplatesService{c}
}

func (c *Client) Users() UsersService {
	return UsersService{c}
}
