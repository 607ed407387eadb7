package model

// ProfileQuery is bound from the query string of profile routes
// a limit of 0 is valid and returns no languages
type ProfileQuery struct {
	Username string `form:"username" binding:"required"`
	Limit    *int   `form:"limit" binding:"omitempty,min=0,max=100"`
}

// LanguagesLimit returns the requested limit or the fallback when not provided
func (params ProfileQuery) LanguagesLimit(fallback int) int {
	if params.Limit == nil {
		return fallback
	}

	return *params.Limit
}
